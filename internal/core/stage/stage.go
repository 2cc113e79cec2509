package stage

// Access is a bitmask over the shared resources (component columns, the
// broadphase grid) a stage reads or writes. The runner uses declared access
// sets to prove that stages without an ordering edge cannot race.
type Access uint64

// AccessNone declares that a stage touches no shared columns.
const AccessNone Access = 0

// Stage is the static declaration every pipeline stage provides. A stage
// additionally implements either Parallel or Serial, which carries its
// per-frame body.
type Stage interface {
	// Name identifies the stage in dependency lists and error messages.
	Name() string
	// Dependencies lists stages that must complete earlier in the same frame.
	Dependencies() []string
	// Reads declares the columns the stage body reads.
	Reads() Access
	// Writes declares the columns the stage body writes.
	Writes() Access
}

// Parallel is implemented by stages whose work splits across the worker
// pool: the runner partitions the dense index range [0, Len()) into chunks
// and invokes RunRange concurrently, one chunk per worker. Bodies must only
// write rows inside their own range (plus any columns resolved per-row
// through the range's entities, which are disjoint across chunks).
type Parallel interface {
	Stage
	Len() int
	RunRange(ctx Context, start, end int)
}

// Serial is implemented by stages that must run whole on one goroutine,
// typically because they perform order-sensitive read-modify-write on rows
// shared between work items.
type Serial interface {
	Stage
	RunAll(ctx Context)
}

// Preparer is an optional hook invoked once per frame before the stage body
// fans out. It runs on the stage's own goroutine.
type Preparer interface {
	Prepare(dt float64)
}

// Finisher is an optional hook invoked once per frame after every body
// invocation has returned. It runs on the stage's own goroutine.
type Finisher interface {
	Finish()
}

// Context carries per-invocation frame data into a stage body.
type Context struct {
	// DT is the fixed simulation timestep for this frame.
	DT float64
	// Worker indexes the output shard a RunRange invocation owns. Always 0
	// for Serial stages.
	Worker int
}

// Output is a double-buffered stage output. The runner swaps every attached
// output once at frame start, so a consumer stage always reads what the
// producer emitted during the previous frame.
type Output interface {
	Swap()
}
