package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/curtisnewbie/lockset/lockset"
	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/curtisnewbie/lockset/util/propdoc"
	"github.com/curtisnewbie/lockset/version"
)

const (
	DefaultConfigurationFileName = "config.md"
	CorePackage                  = "lockset"
)

var (
	Debug = flag.Bool("debug", false, "Enable debug log")
	Path  = flag.String("path", "", "Path to the generated markdown config table file, by default it's ./doc/config.md")
	Dir   = flag.String("dir", ".", "Directory scanned for lockset-* comments")
)

func main() {
	flag.Usage = func() {
		printlnf("\nlocksetconfig - generate configuration tables and default values based on lockset-* comments\n")
		printlnf("  lockset version: %v\n", version.Version)
		printlnf("Usage of %s:", os.Args[0])
		flag.PrintDefaults()
		printlnf("\nFor example:")
		printlnf(`
In prop.go:

  // lockset-section: Benchmark Configuration
  const (

	  // lockset-prop: initial table capacity | 16
	  PropBenchCapacity = "bench.capacity"

	  // lockset-default-start
	  // lockset-default-end
  )

In ./doc/config.md:

  %v
  %v
`, propdoc.TableEmbedStart, propdoc.TableEmbedEnd)
	}
	flag.Parse()
	if *Debug {
		lockset.SetLogLevel("debug")
	}

	files, err := walkDir(*Dir, ".go")
	if err != nil {
		lockset.Errorf("walkDir failed, %v", err)
		os.Exit(1)
	}

	var sections []propdoc.Section
	bySource := map[string][]propdoc.Decl{}
	var sources []string
	for _, f := range files {
		parsed, err := propdoc.ParseFile(f, nil)
		if err != nil {
			lockset.Errorf("%v", err)
			os.Exit(1)
		}
		for _, sec := range parsed {
			lockset.Debugf("Found section '%v' in %v, %d props", sec.Name, f, len(sec.Decls))
			for _, d := range sec.Decls {
				if _, ok := bySource[d.Source]; !ok {
					sources = append(sources, d.Source)
				}
				bySource[d.Source] = append(bySource[d.Source], d)
			}
		}
		sections = mergeSections(sections, parsed)
	}
	if len(sections) < 1 {
		printlnf("No lockset-prop found in %v", *Dir)
		return
	}
	propdoc.SortSections(sections)

	if err := flushConfigTable(sections); err != nil {
		lockset.Errorf("Failed to write config table, %v", err)
		os.Exit(1)
	}

	for _, src := range sources {
		if err := flushDefaults(src, bySource[src]); err != nil {
			lockset.Errorf("Failed to write default values to %v, %v", src, err)
			os.Exit(1)
		}
	}
}

func mergeSections(sections []propdoc.Section, parsed []propdoc.Section) []propdoc.Section {
	for _, p := range parsed {
		merged := false
		for i := range sections {
			if sections[i].Name == p.Name {
				sections[i].Decls = append(sections[i].Decls, p.Decls...)
				merged = true
				break
			}
		}
		if !merged {
			sections = append(sections, p)
		}
	}
	return sections
}

func flushConfigTable(sections []propdoc.Section) error {
	path := *Path
	if path == "" {
		if err := os.MkdirAll("doc", 0o755); err != nil {
			return errs.WrapErrf(err, "failed to create doc dir")
		}
		path = filepath.Join("doc", DefaultConfigurationFileName)
	}

	out := propdoc.Markdown(sections)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errs.WrapErrf(err, "failed to read %v", path)
	}
	if v, ok := propdoc.Embed(string(existing), out, propdoc.TableEmbedStart, propdoc.TableEmbedEnd); ok {
		out = v
	} else {
		out = "# Configurations\n" + out
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return errs.WrapErrf(err, "failed to write %v", path)
	}
	printlnf("Generated config table to %v", path)
	return nil
}

func flushDefaults(path string, decls []propdoc.Decl) error {
	if len(decls) < 1 {
		return nil
	}
	var prefix string
	if decls[0].Package != CorePackage {
		prefix = CorePackage + "."
	}
	code, ok := propdoc.DefaultsFunc(decls, prefix)
	if !ok {
		return nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return errs.WrapErrf(err, "failed to open %v", path)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return errs.WrapErrf(err, "failed to read %v", path)
	}
	content, ok := propdoc.Embed(string(buf), code, propdoc.DefaultEmbedStart, propdoc.DefaultEmbedEnd)
	if !ok {
		lockset.Debugf("No default value markers in %v, skipped", path)
		return nil
	}
	if err := f.Truncate(0); err != nil {
		return errs.WrapErrf(err, "failed to truncate %v", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return errs.WrapErrf(err, "failed to seek %v", path)
	}
	if _, err := f.WriteString(content); err != nil {
		return errs.WrapErrf(err, "failed to write %v", path)
	}
	printlnf("Generated default config code in %v", path)
	return nil
}

// Find files with the suffix, test files and directories starting with '.' or '_' are skipped.
func walkDir(dir string, suffix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, suffix) && !strings.HasSuffix(name, "_test.go") {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func printlnf(pat string, args ...any) {
	fmt.Printf(pat+"\n", args...)
}
