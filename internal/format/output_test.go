package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Tags   []string `json:"tags"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": sample{ID: "1", Status: "pending"}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != `{"data":{"id":"1","status":"pending","count":0,"tags":null}}`+"\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_YAMLKeepsJSONNamesAndOrder(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"data": []sample{{ID: "12", Status: "true", Count: 3, Tags: []string{"a"}}}}
	if err := Write(&buf, v, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"data:", `id: "12"`, `status: "true"`, "count: 3", "- a"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in yaml:\n%s", want, got)
		}
	}
	if strings.Index(got, "id:") > strings.Index(got, "count:") {
		t.Fatalf("expected json field order; got:\n%s", got)
	}
	if strings.Contains(got, "{") {
		t.Fatalf("expected block style; got:\n%s", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
