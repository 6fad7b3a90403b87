package xlsx

import "testing"

func TestDecodeCellRef(t *testing.T) {
	cases := []struct {
		ref      string
		row, col uint32
		ok       bool
	}{
		{"A1", 0, 0, true},
		{"Z1", 0, 25, true},
		{"AA1", 0, 26, true},
		{"AZ1", 0, 51, true},
		{"BA1", 0, 52, true},
		{"AB12", 11, 27, true},
		{"", 0, 0, false},
		{"1A", 0, 0, false},
		{"A", 0, 0, false},
		{"A0", 0, 0, false},
	}
	for _, c := range cases {
		row, col, ok := DecodeCellRef(c.ref)
		if ok != c.ok {
			t.Errorf("DecodeCellRef(%q) ok = %v, want %v", c.ref, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if row != c.row || col != c.col {
			t.Errorf("DecodeCellRef(%q) = (%d, %d), want (%d, %d)", c.ref, row, col, c.row, c.col)
		}
	}
}

func TestReadSharedStrings(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?>
<sst>
  <si><t>hello</t></si>
  <si><r><t>wo</t></r><r><t>rld</t></r></si>
  <si></si>
</sst>`)
	got, err := ReadSharedStrings(doc)
	if err != nil {
		t.Fatalf("ReadSharedStrings: %v", err)
	}
	want := []string{"hello", "wo", ""}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadWorksheetCellTypes(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?>
<worksheet>
  <sheetData>
    <row>
      <c r="A1" t="n"><v>42</v></c>
      <c r="B1" t="str"><v>hi</v></c>
      <c r="C1" t="b"><v>1</v></c>
      <c r="D1" t="b"><v>0</v></c>
      <c r="E1" t="s"><v>0</v></c>
      <c r="F1" t="s"><v>99</v></c>
      <c r="G1" t="weird"><v>x</v></c>
      <c r="H1"><v>x</v></c>
    </row>
  </sheetData>
</worksheet>`)
	shared := []string{"shared0"}
	m, err := ReadWorksheet(doc, shared)
	if err != nil {
		t.Fatalf("ReadWorksheet: %v", err)
	}

	check := func(ref string, want string) {
		row, col, ok := DecodeCellRef(ref)
		if !ok {
			t.Fatalf("DecodeCellRef(%q) failed", ref)
		}
		got, ok := m.Get(row, col)
		if !ok {
			if want != "" {
				t.Errorf("%s: missing, want %q", ref, want)
			}
			return
		}
		if got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}

	check("A1", "42")
	check("B1", "hi")
	check("C1", "true")
	check("D1", "false")
	check("E1", "shared0")
	check("F1", "???")
	check("G1", "??")
	check("H1", "?")
}

func TestReadWorksheetInvalidRefDropped(t *testing.T) {
	doc := []byte(`<worksheet><sheetData><row><c r="??" t="n"><v>1</v></c></row></sheetData></worksheet>`)
	m, err := ReadWorksheet(doc, nil)
	if err != nil {
		t.Fatalf("ReadWorksheet: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for a dropped invalid reference", m.Len())
	}
}
