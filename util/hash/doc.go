// Hash based set containers sharing one functional contract, [HashSet], with different concurrency-control strategies.
//
// [SeqSet] is the unsynchronized baseline, it must only be used by one goroutine at a time.
//
// [CoarseSet] guards the whole structure with a single [sync.Mutex].
//
// [StripedSet] partitions the lock space into a fixed number of stripes, the stripe is picked by hash(e) % stripes
// and never changes, resize acquires every stripe.
//
// [RefinableSet] lets the stripes grow together with the table, ordinary operations pass a shared gate ([sync.RWMutex])
// while resize holds the gate exclusively before reshaping both the table and the stripes.
//
// All variants rehash into a table twice as large once size exceeds loadFactor * capacity (the load factor is 4 by default).
package hash
