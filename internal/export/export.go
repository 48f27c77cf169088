package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat - пустая строка означает csv
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename подставляет расширение формата к базовому имени
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Table - таблица для выгрузки. Ячейки: string, числа, bool, time.Time.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]interface{}
}

// Write пишет таблицу в выбранном формате
func Write(w io.Writer, format Format, t Table) error {
	if format == FormatXLSX {
		return WriteXLSX(w, t)
	}
	return WriteCSV(w, t)
}

// WriteCSV пишет заголовок и строки; строковые ячейки всегда в двойных кавычках
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(t.Header, ",") + "\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = csvCell(v)
		}
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return `""`
	case string:
		return quote(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return quote(val.Format(time.RFC3339))
	case fmt.Stringer:
		return quote(val.String())
	default:
		return quote(fmt.Sprint(val))
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// YesNo - булево значение в человекочитаемом виде
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
