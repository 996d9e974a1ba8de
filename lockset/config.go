package lockset

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var (
	_globalConfig = newAppConfig()
)

type AppConfig struct {
	vp   *viper.Viper
	rwmu *sync.RWMutex
}

func newAppConfig() *AppConfig {
	return &AppConfig{
		vp:   viper.New(),
		rwmu: &sync.RWMutex{},
	}
}

// Set value for the prop
func (a *AppConfig) SetProp(prop string, val any) {
	doWithWriteLock(a, func() {
		a.vp.Set(prop, val)
	})
}

// Set default value for the prop
func (a *AppConfig) SetDefProp(prop string, defVal any) {
	doWithWriteLock(a, func() {
		a.vp.SetDefault(prop, defVal)
	})
}

// Register alias for the prop, values set under the alias are visible through the prop.
func (a *AppConfig) RegisterAlias(prop string, alias string) {
	doWithWriteLock(a, func() {
		a.vp.RegisterAlias(alias, prop)
	})
}

// Check whether the prop exists
func (a *AppConfig) HasProp(prop string) bool {
	return returnWithReadLock(a, func() bool { return a.vp.IsSet(prop) })
}

// Get prop as string slice.
//
// Plain string values (e.g., values passed through cli args) are split by comma.
func (a *AppConfig) GetPropStrSlice(prop string) []string {
	return returnWithReadLock(a, func() []string {
		v := a.vp.Get(prop)
		if s, ok := v.(string); ok {
			return splitTrim(s, ",")
		}
		return cast.ToStringSlice(v)
	})
}

// Get prop as int
func (a *AppConfig) GetPropInt(prop string) int {
	return returnWithReadLock(a, func() int { return a.vp.GetInt(prop) })
}

// Get prop as int64
func (a *AppConfig) GetPropInt64(prop string) int64 {
	return returnWithReadLock(a, func() int64 { return a.vp.GetInt64(prop) })
}

// Get prop as time.Duration
func (a *AppConfig) GetPropDur(prop string, unit time.Duration) time.Duration {
	return time.Duration(a.GetPropInt(prop)) * unit
}

// Get prop as bool
func (a *AppConfig) GetPropBool(prop string) bool {
	return returnWithReadLock(a, func() bool { return a.vp.GetBool(prop) })
}

// Get prop as string
func (a *AppConfig) GetPropStr(prop string) string {
	return returnWithReadLock(a, func() string { return a.vp.GetString(prop) })
}

// Overwrite existing conf using environment and cli args.
func (a *AppConfig) OverwriteConf(args []string) {
	// overwrite loaded configuration with environment variables
	a.overwriteConf(ArgKeyVal(os.Environ()))
	// overwrite the loaded configuration with cli arguments
	a.overwriteConf(ArgKeyVal(args))
}

/*
Default way to read config file.

Repetitively calling this method overides previously loaded config.

This func is essentially:

	LoadConfigFromFile(GuessConfigFilePath(args))

Notice that the loaded configuration can be overriden by the cli arguments as well by using `KEY=VALUE` syntax.
*/
func (a *AppConfig) DefaultReadConfig(args []string) {
	defConfigFile := GuessConfigFilePath(args)
	if err := a.LoadConfigFromFile(defConfigFile); err != nil {
		Debugf("Failed to load config file, file: %v, %v", defConfigFile, err)
	} else {
		Infof("Loaded config file: %v", defConfigFile)
	}
	a.OverwriteConf(args)
}

// Load config from io Reader.
//
// It's the caller's responsibility to close the provided reader.
func (a *AppConfig) LoadConfigFromReader(reader io.Reader) error {
	var eo error
	doWithWriteLock(a, func() {
		a.vp.SetConfigType("yml")
		if err := a.vp.MergeConfig(reader); err != nil {
			eo = errs.WrapErrf(err, "failed to load config from reader")
		}
	})
	return eo
}

// Load config from string.
func (a *AppConfig) LoadConfigFromStr(s string) error {
	return a.LoadConfigFromReader(bytes.NewReader([]byte(s)))
}

// Load config from file.
func (a *AppConfig) LoadConfigFromFile(configFile string) error {
	if configFile == "" {
		return nil
	}

	f, err := os.Open(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.ErrIllegalArgument.WithInternalMsg("unable to find config file: '%s'", configFile)
		}
		return errs.WrapErrf(err, "failed to open config file: '%s'", configFile)
	}
	defer f.Close()

	if err := a.LoadConfigFromReader(f); err != nil {
		return errs.WrapErrf(err, "failed to load config file: '%s'", configFile)
	}
	return nil
}

func (a *AppConfig) overwriteConf(kvs map[string][]string) {
	for k, v := range kvs {
		if len(v) == 1 {
			a.SetProp(k, v[0])
		} else {
			a.SetProp(k, v)
		}
	}
}

// Set value for the prop
func SetProp(prop string, val any) {
	_globalConfig.SetProp(prop, val)
}

// Set default value for the prop
func SetDefProp(prop string, defVal any) {
	_globalConfig.SetDefProp(prop, defVal)
}

// Register alias for the prop
func RegisterAlias(prop string, alias string) {
	_globalConfig.RegisterAlias(prop, alias)
}

// Check whether the prop exists
func HasProp(prop string) bool {
	return _globalConfig.HasProp(prop)
}

// Get prop as string slice
func GetPropStrSlice(prop string) []string {
	return _globalConfig.GetPropStrSlice(prop)
}

// Get prop as int
func GetPropInt(prop string) int {
	return _globalConfig.GetPropInt(prop)
}

// Get prop as int64
func GetPropInt64(prop string) int64 {
	return _globalConfig.GetPropInt64(prop)
}

// Get prop as time.Duration
func GetPropDur(prop string, unit time.Duration) time.Duration {
	return _globalConfig.GetPropDur(prop, unit)
}

// Get prop as bool
func GetPropBool(prop string) bool {
	return _globalConfig.GetPropBool(prop)
}

// Get prop as string
func GetPropStr(prop string) string {
	return _globalConfig.GetPropStr(prop)
}

// Overwrite existing conf using environment and cli args.
func OverwriteConf(args []string) {
	_globalConfig.OverwriteConf(args)
}

// Default way to read config file, see [AppConfig.DefaultReadConfig].
func DefaultReadConfig(args []string) {
	_globalConfig.DefaultReadConfig(args)
}

// Load config from string.
func LoadConfigFromStr(s string) error {
	return _globalConfig.LoadConfigFromStr(s)
}

// Load config from file.
func LoadConfigFromFile(configFile string) error {
	return _globalConfig.LoadConfigFromFile(configFile)
}

func doWithWriteLock(a *AppConfig, f func()) {
	a.rwmu.Lock()
	defer a.rwmu.Unlock()
	f()
}

func returnWithReadLock[T any](a *AppConfig, f func() T) T {
	a.rwmu.RLock()
	defer a.rwmu.RUnlock()
	return f()
}

// Parse CLI args to key-value map
func ArgKeyVal(args []string) map[string][]string {
	m := map[string][]string{}
	for _, s := range args {
		var eq int = strings.Index(s, "=")
		if eq == -1 {
			continue
		}

		key := strings.TrimSpace(s[:eq])
		val := strings.TrimSpace(s[eq+1:])
		if prev, ok := m[key]; ok {
			m[key] = append(prev, val)
		} else {
			m[key] = []string{val}
		}
	}
	return m
}

// Guess config file path.
//
// It first looks for the arg that matches the pattern "configFile=/path/to/configFile".
// If none is found, it's by default 'conf.yml'.
func GuessConfigFilePath(args []string) string {
	path := ExtractArgValue(args, func(key string) bool { return key == "configFile" })
	if strings.TrimSpace(path) == "" {
		path = "conf.yml"
	}
	return path
}

/*
Parse CLI Arg to extract a value from arg, [key]=[value]

e.g.,

To look for 'configFile=?'.

	path := ExtractArgValue(args, func(key string) bool { return key == "configFile" }).
*/
func ExtractArgValue(args []string, predicate func(key string) bool) string {
	for _, s := range args {
		var eq int = strings.Index(s, "=")
		if eq != -1 {
			if key := s[:eq]; predicate(key) {
				return s[eq+1:]
			}
		}
	}
	return ""
}

func splitTrim(s string, sep string) []string {
	tok := strings.Split(s, sep)
	out := make([]string, 0, len(tok))
	for _, t := range tok {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
