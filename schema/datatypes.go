package schema

import (
	"encoding/json"
	"fmt"

	"github.com/walacor/walacor-go/envelope"
)

const (
	FieldInteger       = "INTEGER"
	FieldText          = "TEXT"
	FieldDecimal       = "DECIMAL"
	FieldBoolean       = "BOOLEAN"
	FieldDatetimeEpoch = "DATETIME(EPOCH)"
	FieldArray         = "ARRAY"
	FieldCron          = "CRON"
)

// DataType is one field type the platform accepts in a schema definition.
// The concrete value is chosen by its Name.
type DataType interface {
	TypeName() string
}

type IntegerField struct {
	Name         string `json:"Name"`
	DefaultValue *int   `json:"DefaultValue,omitempty"`
	MinValue     *int   `json:"MinValue,omitempty"`
	MaxValue     *int   `json:"MaxValue,omitempty"`
}

type TextField struct {
	Name         string  `json:"Name"`
	DefaultValue *string `json:"DefaultValue,omitempty"`
	MinLength    *int    `json:"MinLength,omitempty"`
	MaxLength    *int    `json:"MaxLength,omitempty"`
}

type DecimalField struct {
	Name         string   `json:"Name"`
	DefaultValue *float64 `json:"DefaultValue,omitempty"`
	MinValue     *float64 `json:"MinValue,omitempty"`
	MaxValue     *float64 `json:"MaxValue,omitempty"`
}

type BooleanField struct {
	Name         string `json:"Name"`
	DefaultValue *bool  `json:"DefaultValue,omitempty"`
}

type DatetimeField struct {
	Name         string  `json:"Name"`
	DefaultValue *string `json:"DefaultValue,omitempty"`
}

type ArrayField struct {
	Name         string  `json:"Name"`
	DefaultValue *string `json:"DefaultValue,omitempty"`
	Type         string  `json:"Type" validate:"required"`
}

type CronField struct {
	Name         string  `json:"Name"`
	DefaultValue *string `json:"DefaultValue,omitempty"`
	MinLength    *int    `json:"MinLength,omitempty"`
	MaxLength    *int    `json:"MaxLength,omitempty"`
}

func (f IntegerField) TypeName() string  { return FieldInteger }
func (f TextField) TypeName() string     { return FieldText }
func (f DecimalField) TypeName() string  { return FieldDecimal }
func (f BooleanField) TypeName() string  { return FieldBoolean }
func (f DatetimeField) TypeName() string { return FieldDatetimeEpoch }
func (f ArrayField) TypeName() string    { return FieldArray }
func (f CronField) TypeName() string     { return FieldCron }

// DataTypes decodes a list of data types by their Name discriminator.
type DataTypes []DataType

func (d *DataTypes) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(DataTypes, 0, len(raws))
	for i, raw := range raws {
		dt, err := decodeDataType(raw)
		if err != nil {
			return fmt.Errorf("data type %d: %w", i, err)
		}
		out = append(out, dt)
	}
	*d = out
	return nil
}

func decodeDataType(raw json.RawMessage) (DataType, error) {
	var head struct {
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	var (
		dt  DataType
		err error
	)
	switch head.Name {
	case FieldInteger:
		dt, err = decodeInto[IntegerField](raw)
	case FieldText:
		dt, err = decodeInto[TextField](raw)
	case FieldDecimal:
		dt, err = decodeInto[DecimalField](raw)
	case FieldBoolean:
		dt, err = decodeInto[BooleanField](raw)
	case FieldDatetimeEpoch:
		dt, err = decodeInto[DatetimeField](raw)
	case FieldArray:
		dt, err = decodeInto[ArrayField](raw)
	case FieldCron:
		dt, err = decodeInto[CronField](raw)
	default:
		return nil, fmt.Errorf("unknown data type %q", head.Name)
	}
	if err != nil {
		return nil, err
	}
	if err := envelope.Validate(dt); err != nil {
		return nil, err
	}
	return dt, nil
}

func decodeInto[T DataType](raw json.RawMessage) (DataType, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
