package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The nested song structs are stored as JSON text columns.

func (f Fonts) Value() (driver.Value, error) { return jsonValue(f) }
func (f *Fonts) Scan(value interface{}) error { return jsonScan(value, f) }
func (l Lyrics) Value() (driver.Value, error) { return jsonValue(l) }
func (l *Lyrics) Scan(value interface{}) error { return jsonScan(value, l) }
func (m SongMeta) Value() (driver.Value, error) { return jsonValue(m) }
func (m *SongMeta) Scan(value interface{}) error { return jsonScan(value, m) }

func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	return json.Unmarshal(data, dest)
}
