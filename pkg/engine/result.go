package engine

// ResultTag discriminates the kind of a Result.
type ResultTag int

const (
	ResultOk ResultTag = iota
	ResultNull
	ResultBulkString
	ResultInteger
	ResultError
)

// Result is what Engine.Call returns: one of Ok, Null, a bulk string, an integer, or an error message.
type Result struct {
	Tag     ResultTag
	Str     string // BulkString, Error
	Integer int64  // Integer
}

// Ok is the unconditional success result, e.g. for a SET without GET.
func Ok() Result { return Result{Tag: ResultOk} }

// Null is the "no value" result, e.g. GET on an absent key.
func Null() Result { return Result{Tag: ResultNull} }

// BulkString wraps s as a successful string-valued result.
func BulkString(s []byte) Result { return Result{Tag: ResultBulkString, Str: string(s)} }

// Integer wraps n as a successful integer-valued result.
func Integer(n int64) Result { return Result{Tag: ResultInteger, Integer: n} }

// Error wraps msg as a failed result. msg is the bare message; callers at the protocol boundary decide
// whether to prefix it (e.g. with "ERR ").
func Error(msg string) Result { return Result{Tag: ResultError, Str: msg} }
