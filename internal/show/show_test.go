package show

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mindriot101/whatson/internal/date"
)

func single(day, month int, year uint) date.Date {
	return date.Single{RawDate: date.RawDate{Day: day, Month: month, Year: year}}
}

func span(d1, m1, d2, m2 int, year uint) date.Date {
	return date.Range{
		Start: date.RawDate{Day: d1, Month: m1, Year: year},
		End:   date.RawDate{Day: d2, Month: m2, Year: year},
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID("Belgrade", "Hamlet", single(1, 0, 2025))
	b := GenerateID(" belgrade ", "HAMLET", single(1, 0, 2025))
	if a != b {
		t.Errorf("IDs differ for equivalent input: %s vs %s", a, b)
	}

	c := GenerateID("Belgrade", "Hamlet", single(2, 0, 2025))
	if a == c {
		t.Error("IDs equal for different dates")
	}

	d := GenerateID("Albany", "Hamlet", single(1, 0, 2025))
	if a == d {
		t.Error("IDs equal for different theatres")
	}

	if len(a) != 40 {
		t.Errorf("ID length = %d, want 40", len(a))
	}
}

func TestWithTheatre(t *testing.T) {
	s := New("", "Hamlet", single(1, 0, 2025))
	s.LinkURL, s.ImageURL = "/whats-on/hamlet/", "/media/hamlet.jpg"
	got := s.WithTheatre("Belgrade")

	if got.Theatre != "Belgrade" {
		t.Errorf("Theatre = %q, want Belgrade", got.Theatre)
	}
	if got.ID == s.ID {
		t.Error("ID was not regenerated")
	}
	if got.Name != s.Name {
		t.Errorf("Name = %q, want %q", got.Name, s.Name)
	}
	if got.LinkURL != s.LinkURL || got.ImageURL != s.ImageURL {
		t.Errorf("URLs = %q, %q, want %q, %q", got.LinkURL, got.ImageURL, s.LinkURL, s.ImageURL)
	}
}

func TestShow_JSON(t *testing.T) {
	s := New("Belgrade", "Hamlet", span(3, 8, 10, 8, 2023))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if decoded["name"] != "Hamlet" {
		t.Errorf("name = %v, want Hamlet", decoded["name"])
	}
	if !strings.Contains(string(data), `"kind":"range"`) {
		t.Errorf("JSON %s does not carry the date kind", data)
	}
	if _, ok := decoded["link_url"]; ok {
		t.Errorf("JSON %s has link_url for a show without a link", data)
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    SortOrder
		wantErr bool
	}{
		{"", SortByDocument, false},
		{"date", SortByDate, false},
		{" Name ", SortByName, false},
		{"document", SortByDocument, false},
		{"state", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortOrder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	shows := []Show{
		New("T", "Macbeth", span(10, 2, 20, 2, 2025)),
		New("T", "amadeus", single(5, 1, 2025)),
		New("T", "Hamlet", single(10, 2, 2025)),
		New("T", "Cats", single(1, 0, 2026)),
	}

	names := func(s []Show) []string {
		out := make([]string, len(s))
		for i, sh := range s {
			out[i] = sh.Name
		}
		return out
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByDocument, []string{"Macbeth", "amadeus", "Hamlet", "Cats"}},
		{SortByDate, []string{"amadeus", "Hamlet", "Macbeth", "Cats"}},
		{SortByName, []string{"amadeus", "Cats", "Hamlet", "Macbeth"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := append([]Show(nil), shows...)
			Sort(got, tt.order)
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Sort(%s) mismatch (-want +got):\n%s", tt.order, diff)
			}
		})
	}
}
