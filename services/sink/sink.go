package sink

// TableSink is the tabular persistence capability consumed by the worker:
// flat records written to and read back from named destinations. Column
// sets are owned by the callers.
type TableSink interface {
	// Write persists a header and rows under the given table name,
	// replacing any previous contents.
	Write(table string, header []string, rows [][]string) error

	// Read returns the header and rows previously written under the name.
	Read(table string) (header []string, rows [][]string, err error)
}
