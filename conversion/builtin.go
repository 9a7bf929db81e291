package conversion

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/cast"
)

// Names of the built-in converters as used in `convert=` tag options.
const (
	BooleanName = "boolean"
	DateName    = "date"
	TimeName    = "time"
	NumberName  = "number"
	GUIDName    = "guid"
	TrimName    = "trim"
)

const (
	abapTrue    = "X"
	initialDate = "00000000"
	datsLayout  = "20060102"
	timsLayout  = "150405"
)

var (
	datsFormat = mustPattern("%Y%m%d")
	timsFormat = mustPattern("%H%M%S")
)

func mustPattern(p string) *strftime.Strftime {
	f, err := strftime.New(p)
	if err != nil {
		panic(err)
	}

	return f
}

// BooleanConverter maps the ABAP flag convention ("X" set, blank unset) to bool.
type BooleanConverter struct{}

func (BooleanConverter) ToGo(sapValue any) (any, error) {
	switch v := sapValue.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.TrimSpace(v) {
		case abapTrue:
			return true, nil
		case "":
			return false, nil
		default:
			return nil, toGoError(BooleanName, sapValue, ErrInvalidValue)
		}
	default:
		return nil, toGoError(BooleanName, sapValue, unexpected(sapValue))
	}
}

func (BooleanConverter) ToSAP(goValue any) (any, error) {
	v, ok := goValue.(bool)
	if !ok {
		return nil, toSAPError(BooleanName, goValue, unexpected(goValue))
	}

	if v {
		return abapTrue, nil
	}

	return "", nil
}

// DateConverter maps ABAP DATS values (YYYYMMDD) to time.Time in UTC. The
// initial date 00000000 maps to the zero time and back.
type DateConverter struct{}

func (DateConverter) ToGo(sapValue any) (any, error) {
	switch v := sapValue.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == initialDate {
			return time.Time{}, nil
		}

		t, err := time.ParseInLocation(datsLayout, s, time.UTC)
		if err != nil {
			return nil, toGoError(DateName, sapValue, err)
		}

		return t, nil
	default:
		return nil, toGoError(DateName, sapValue, unexpected(sapValue))
	}
}

func (DateConverter) ToSAP(goValue any) (any, error) {
	t, ok := goValue.(time.Time)
	if !ok {
		return nil, toSAPError(DateName, goValue, unexpected(goValue))
	}

	if t.IsZero() {
		return initialDate, nil
	}

	return datsFormat.FormatString(t), nil
}

// TimeConverter maps ABAP TIMS values (HHMMSS) to time.Time on the zero date.
type TimeConverter struct{}

func (TimeConverter) ToGo(sapValue any) (any, error) {
	switch v := sapValue.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, nil
		}

		t, err := time.ParseInLocation(timsLayout, s, time.UTC)
		if err != nil {
			return nil, toGoError(TimeName, sapValue, err)
		}

		return t, nil
	default:
		return nil, toGoError(TimeName, sapValue, unexpected(sapValue))
	}
}

func (TimeConverter) ToSAP(goValue any) (any, error) {
	t, ok := goValue.(time.Time)
	if !ok {
		return nil, toSAPError(TimeName, goValue, unexpected(goValue))
	}

	return timsFormat.FormatString(t), nil
}

// NumberConverter maps numeric text, including zero-padded NUMC values and
// the ABAP trailing minus sign, to int64.
type NumberConverter struct{}

func (NumberConverter) ToGo(sapValue any) (any, error) {
	s, ok := sapValue.(string)
	if !ok {
		n, err := cast.ToInt64E(sapValue)
		if err != nil {
			return nil, toGoError(NumberName, sapValue, err)
		}

		return n, nil
	}

	n, err := cast.ToInt64E(normalizeNumber(s))
	if err != nil {
		return nil, toGoError(NumberName, sapValue, err)
	}

	return n, nil
}

func (NumberConverter) ToSAP(goValue any) (any, error) {
	n, err := cast.ToInt64E(goValue)
	if err != nil {
		return nil, toSAPError(NumberName, goValue, err)
	}

	return cast.ToString(n), nil
}

// normalizeNumber strips blanks and leading zeros so that the result is
// never read as an octal literal, and moves a trailing sign to the front.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)

	sign := ""
	switch {
	case strings.HasSuffix(s, "-"):
		sign, s = "-", strings.TrimSpace(strings.TrimSuffix(s, "-"))
	case strings.HasPrefix(s, "-"):
		sign, s = "-", s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	s = strings.TrimLeft(s, "0")
	if s == "" || strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	return sign + s
}

// GUIDConverter maps 32 character RAW16 GUIDs to uuid.UUID. Outgoing values
// use the upper case form without dashes.
type GUIDConverter struct{}

func (GUIDConverter) ToGo(sapValue any) (any, error) {
	switch v := sapValue.(type) {
	case uuid.UUID:
		return v, nil
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return nil, toGoError(GUIDName, sapValue, err)
		}

		return id, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return uuid.Nil, nil
		}

		id, err := uuid.Parse(s)
		if err != nil {
			return nil, toGoError(GUIDName, sapValue, err)
		}

		return id, nil
	default:
		return nil, toGoError(GUIDName, sapValue, unexpected(sapValue))
	}
}

func (GUIDConverter) ToSAP(goValue any) (any, error) {
	id, ok := goValue.(uuid.UUID)
	if !ok {
		return nil, toSAPError(GUIDName, goValue, unexpected(goValue))
	}

	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")), nil
}

// TrimConverter removes the trailing blanks of fixed-length CHAR values.
type TrimConverter struct{}

func (TrimConverter) ToGo(sapValue any) (any, error) {
	s, ok := sapValue.(string)
	if !ok {
		return nil, toGoError(TrimName, sapValue, unexpected(sapValue))
	}

	return strings.TrimRight(s, " "), nil
}

func (TrimConverter) ToSAP(goValue any) (any, error) {
	return goValue, nil
}
