package file

// Operation names an edit_file operation.
type Operation string

const (
	OpReplace Operation = "replace"
	OpInsert  Operation = "insert"
	OpAppend  Operation = "append"
	OpDelete  Operation = "delete"
	OpWrite   Operation = "write"
)

// MaxFileSize is the editing ceiling.
const MaxFileSize int64 = 10 * 1024 * 1024

// DefaultReadLimit bounds read_local_file.
const DefaultReadLimit int64 = 200_000

// EditResult describes the effect of a successful edit.
type EditResult struct {
	Message       string `json:"message"`
	FilePath      string `json:"file_path"`
	LinesModified int    `json:"lines_modified"`
	BackupPath    string `json:"backup_path,omitempty"`
	Diff          string `json:"diff,omitempty"`
	Encoding      string `json:"encoding"`
}

// EditFileRequest is the edit_file argument document. Pointer fields
// distinguish absent arguments from empty ones.
type EditFileRequest struct {
	FilePath        string  `json:"file_path"`
	Operation       string  `json:"operation"`
	SearchText      *string `json:"search_text"`
	ReplacementText *string `json:"replacement_text"`
	Content         *string `json:"content"`
	LineNumber      *int    `json:"line_number"`
	StartLine       *int    `json:"start_line"`
	EndLine         *int    `json:"end_line"`
	CreateBackup    *bool   `json:"create_backup"`
}

// ReadLocalFileRequest is the read_local_file argument document.
type ReadLocalFileRequest struct {
	Path string `json:"path"`
}
