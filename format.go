// FILE: format.go
package forward

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// serializer manages the buffered rendering of records. It is the
// default Formatter capability; each rendering excludes the trailing
// newline, which the producer owns as the wire frame delimiter.
type serializer struct {
	buf             []byte
	timestampFormat string
}

// newSerializer creates a serializer instance
func newSerializer() *serializer {
	return &serializer{
		buf:             make([]byte, 0, 1024),
		timestampFormat: time.RFC3339Nano,
	}
}

// reset clears the serializer buffer for reuse
func (s *serializer) reset() {
	s.buf = s.buf[:0]
}

// setTimestampFormat updates the cached format
func (s *serializer) setTimestampFormat(format string) {
	if format == "" {
		format = time.RFC3339Nano
	}
	s.timestampFormat = format
}

// serialize converts a record to the configured format: JSON, raw, or
// (default) txt
func (s *serializer) serialize(format string, showTimestamp, showLevel bool, timestamp time.Time, level int64, args []any) []byte {
	s.reset()

	switch format {
	case "raw":
		return s.serializeRaw(args)
	case "json":
		return s.serializeJSON(showTimestamp, showLevel, timestamp, level, args)
	default:
		return s.serializeTxt(showTimestamp, showLevel, timestamp, level, args)
	}
}

// serializeRaw formats args as space-separated strings without metadata
func (s *serializer) serializeRaw(args []any) []byte {
	needsSpace := false

	for _, arg := range args {
		if needsSpace {
			s.buf = append(s.buf, ' ')
		}
		s.writeTxtValue(arg)
		needsSpace = true
	}

	return s.buf
}

// serializeTxt formats a record as plain txt (time, level, fields)
func (s *serializer) serializeTxt(showTimestamp, showLevel bool, timestamp time.Time, level int64, args []any) []byte {
	needsSpace := false

	if showTimestamp {
		s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
		needsSpace = true
	}

	if showLevel {
		if needsSpace {
			s.buf = append(s.buf, ' ')
		}
		s.buf = append(s.buf, levelToString(level)...)
		needsSpace = true
	}

	for _, arg := range args {
		if needsSpace {
			s.buf = append(s.buf, ' ')
		}
		s.writeTxtValue(arg)
		needsSpace = true
	}

	return s.buf
}

// serializeJSON formats a record as JSON (time, level, fields)
func (s *serializer) serializeJSON(showTimestamp, showLevel bool, timestamp time.Time, level int64, args []any) []byte {
	s.buf = append(s.buf, '{')
	needsComma := false

	if showTimestamp {
		s.buf = append(s.buf, `"time":"`...)
		s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
		s.buf = append(s.buf, '"')
		needsComma = true
	}

	if showLevel {
		if needsComma {
			s.buf = append(s.buf, ',')
		}
		s.buf = append(s.buf, `"level":"`...)
		s.buf = append(s.buf, levelToString(level)...)
		s.buf = append(s.buf, '"')
		needsComma = true
	}

	if len(args) > 0 {
		if needsComma {
			s.buf = append(s.buf, ',')
		}
		s.buf = append(s.buf, `"fields":[`...)
		for i, arg := range args {
			if i > 0 {
				s.buf = append(s.buf, ',')
			}
			s.writeJSONValue(arg)
		}
		s.buf = append(s.buf, ']')
	}

	s.buf = append(s.buf, '}')
	return s.buf
}

// writeTxtValue converts any value to its txt representation.
// Falls back to go-spew for types that are not explicitly supported.
func (s *serializer) writeTxtValue(v any) {
	switch val := v.(type) {
	case string:
		s.buf = append(s.buf, val...)
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, val, 10)
	case uint:
		s.buf = strconv.AppendUint(s.buf, uint64(val), 10)
	case uint64:
		s.buf = strconv.AppendUint(s.buf, val, 10)
	case float32:
		s.buf = strconv.AppendFloat(s.buf, float64(val), 'f', -1, 32)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, val, 'f', -1, 64)
	case bool:
		s.buf = strconv.AppendBool(s.buf, val)
	case nil:
		s.buf = append(s.buf, "nil"...)
	case time.Time:
		s.buf = val.AppendFormat(s.buf, s.timestampFormat)
	case error:
		s.buf = append(s.buf, val.Error()...)
	case fmt.Stringer:
		s.buf = append(s.buf, val.String()...)
	default:
		// Structs, maps, pointers and the rest delegate to spew for a
		// compact, deterministic dump
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		s.buf = append(s.buf, bytes.TrimSpace(b.Bytes())...)
	}
}

// writeJSONValue converts any value to its JSON representation
func (s *serializer) writeJSONValue(v any) {
	switch val := v.(type) {
	case string:
		s.buf = append(s.buf, '"')
		s.writeString(val)
		s.buf = append(s.buf, '"')
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, val, 10)
	case uint:
		s.buf = strconv.AppendUint(s.buf, uint64(val), 10)
	case uint64:
		s.buf = strconv.AppendUint(s.buf, val, 10)
	case float32:
		s.buf = strconv.AppendFloat(s.buf, float64(val), 'f', -1, 32)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, val, 'f', -1, 64)
	case bool:
		s.buf = strconv.AppendBool(s.buf, val)
	case nil:
		s.buf = append(s.buf, "null"...)
	case time.Time:
		s.buf = append(s.buf, '"')
		s.buf = val.AppendFormat(s.buf, s.timestampFormat)
		s.buf = append(s.buf, '"')
	case error:
		s.buf = append(s.buf, '"')
		s.writeString(val.Error())
		s.buf = append(s.buf, '"')
	case fmt.Stringer:
		s.buf = append(s.buf, '"')
		s.writeString(val.String())
		s.buf = append(s.buf, '"')
	default:
		s.buf = append(s.buf, '"')
		s.writeString(fmt.Sprintf("%+v", val))
		s.buf = append(s.buf, '"')
	}
}

// writeString appends a string to the buffer, escaping JSON special
// characters. The newline escape also protects the wire framing: a
// rendered record can never contain a literal '\n'.
func (s *serializer) writeString(str string) {
	lenStr := len(str)
	for i := 0; i < lenStr; {
		if c := str[i]; c < ' ' || c == '"' || c == '\\' {
			switch c {
			case '\\', '"':
				s.buf = append(s.buf, '\\', c)
			case '\n':
				s.buf = append(s.buf, '\\', 'n')
			case '\r':
				s.buf = append(s.buf, '\\', 'r')
			case '\t':
				s.buf = append(s.buf, '\\', 't')
			case '\b':
				s.buf = append(s.buf, '\\', 'b')
			case '\f':
				s.buf = append(s.buf, '\\', 'f')
			default:
				s.buf = append(s.buf, `\u00`...)
				s.buf = append(s.buf, hexChars[c>>4], hexChars[c&0xF])
			}
			i++
		} else {
			start := i
			for i < lenStr && str[i] >= ' ' && str[i] != '"' && str[i] != '\\' {
				i++
			}
			s.buf = append(s.buf, str[start:i]...)
		}
	}
}

const hexChars = "0123456789abcdef"

// levelToString returns the display name of a level
func levelToString(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
