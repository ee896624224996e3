// AngelaMos | 2026
// jsonb_test.go

package core

import (
	"encoding/json"
	"testing"
)

type jsonbFixture struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

func TestJSONColumnValueScan(t *testing.T) {
	col := NewJSONColumn(jsonbFixture{
		Name:  "widget",
		Tags:  []string{"a", "b"},
		Count: 3,
	})

	raw, err := col.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned JSONColumn[jsonbFixture]
	if err := scanned.Scan(raw); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if scanned.Val.Name != "widget" || scanned.Val.Count != 3 ||
		len(scanned.Val.Tags) != 2 {
		t.Errorf("round trip = %+v", scanned.Val)
	}
}

func TestJSONColumnScanString(t *testing.T) {
	var col JSONColumn[jsonbFixture]
	if err := col.Scan(`{"name":"gadget","count":1}`); err != nil {
		t.Fatalf("Scan string: %v", err)
	}
	if col.Val.Name != "gadget" {
		t.Errorf("Val = %+v", col.Val)
	}
}

func TestJSONColumnScanNil(t *testing.T) {
	col := NewJSONColumn(jsonbFixture{Name: "stale"})
	if err := col.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if col.Val.Name != "" {
		t.Errorf("nil scan should zero the value, got %+v", col.Val)
	}
}

func TestJSONColumnScanUnsupportedType(t *testing.T) {
	var col JSONColumn[jsonbFixture]
	if err := col.Scan(42); err == nil {
		t.Error("scanning an int should fail")
	}
}

func TestJSONColumnMarshalsTransparently(t *testing.T) {
	type holder struct {
		Payload JSONColumn[jsonbFixture] `json:"payload"`
	}

	h := holder{Payload: NewJSONColumn(jsonbFixture{Name: "widget"})}

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back holder
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Payload.Val.Name != "widget" {
		t.Errorf("round trip = %+v", back.Payload.Val)
	}
}
