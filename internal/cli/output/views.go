package output

import (
	"strconv"
	"time"

	"github.com/marmos91/sharetab/pkg/records"
	"github.com/marmos91/sharetab/pkg/tabular"
	"github.com/marmos91/sharetab/pkg/transport"
)

// TimeFormat is used for modification times in table output.
const TimeFormat = "2006-01-02 15:04:05"

// TableView renders a decoded CSV or spreadsheet.
type TableView struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Data    [][]string `json:"rows" yaml:"rows"`
}

// NewTableView wraps t for printing. At most limit rows are kept when limit
// is positive.
func NewTableView(t *tabular.Table, limit int) *TableView {
	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return &TableView{Columns: t.Columns, Data: rows}
}

// Headers implements TableRenderer.
func (v *TableView) Headers() []string { return v.Columns }

// Rows implements TableRenderer.
func (v *TableView) Rows() [][]string { return v.Data }

// FormatHeaders keeps column names as they appear in the file.
func (v *TableView) FormatHeaders() bool { return false }

// EntryView is one directory entry.
type EntryView struct {
	Name    string    `json:"name" yaml:"name"`
	Type    string    `json:"type" yaml:"type"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// EntryList renders the result of a directory scan.
type EntryList []EntryView

// NewEntryList converts scanned entries for printing.
func NewEntryList(entries []transport.Entry) EntryList {
	list := make(EntryList, 0, len(entries))
	for _, e := range entries {
		list = append(list, EntryView{
			Name:    e.Name,
			Type:    entryType(e),
			Size:    e.Size,
			ModTime: e.ModTime,
		})
	}
	return list
}

func entryType(e transport.Entry) string {
	switch {
	case e.IsDir:
		return "dir"
	case e.IsFile:
		return "file"
	default:
		return "other"
	}
}

// Headers implements TableRenderer.
func (l EntryList) Headers() []string {
	return []string{"Name", "Type", "Size", "Modified"}
}

// Rows implements TableRenderer.
func (l EntryList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		size := strconv.FormatInt(e.Size, 10)
		if e.Type == "dir" {
			size = "-"
		}
		rows = append(rows, []string{e.Name, e.Type, size, formatTime(e.ModTime)})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeFormat)
}

// RecordItem is one line of a legacy record file.
type RecordItem struct {
	ID          int     `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Value       float64 `json:"value" yaml:"value"`
}

// RecordsView renders a decoded legacy record file.
type RecordsView struct {
	Version string       `json:"version" yaml:"version"`
	FileID  string       `json:"file_id" yaml:"file_id"`
	Items   []RecordItem `json:"items" yaml:"items"`
}

// NewRecordsView converts f for printing.
func NewRecordsView(f *records.File) *RecordsView {
	v := &RecordsView{
		Version: f.Header.Version,
		FileID:  f.Header.FileID,
		Items:   make([]RecordItem, 0, len(f.Items)),
	}
	for _, it := range f.Items {
		v.Items = append(v.Items, RecordItem(it))
	}
	return v
}

// Headers implements TableRenderer.
func (v *RecordsView) Headers() []string {
	return []string{"ID", "Description", "Value"}
}

// Rows implements TableRenderer.
func (v *RecordsView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Items))
	for _, it := range v.Items {
		rows = append(rows, []string{
			strconv.Itoa(it.ID),
			it.Description,
			strconv.FormatFloat(it.Value, 'f', 2, 64),
		})
	}
	return rows
}
