package csv

import "testing"

func joinRows(rows Rows) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = ""
		for j, c := range r {
			if j > 0 {
				out[i] += "|"
			}
			out[i] += c
		}
	}
	return out
}

func TestParseBytesEndToEndScenario(t *testing.T) {
	in := []byte("a,\"b,c\",d\n\"e\"\"f\",,g\n")
	rows := ParseBytes(in, ',', DoubleQuote)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2: %v", len(rows), rows)
	}
	if got, want := rows[0], []string{"a", "b,c", "d"}; !equalSlice(got, want) {
		t.Errorf("rows[0] = %v, want %v", got, want)
	}
	if got, want := rows[1], []string{`e"f`, "", "g"}; !equalSlice(got, want) {
		t.Errorf("rows[1] = %v, want %v", got, want)
	}

	m := rows.ToSheet()
	check := func(row, col uint32, want string) {
		got, ok := m.Get(row, col)
		if want == "" {
			if ok {
				t.Errorf("(%d,%d) present as %q, want absent", row, col, got)
			}
			return
		}
		if !ok || got != want {
			t.Errorf("(%d,%d) = %q, %v, want %q, true", row, col, got, ok, want)
		}
	}
	check(0, 0, "a")
	check(0, 1, "b,c")
	check(0, 2, "d")
	check(1, 0, `e"f`)
	check(1, 1, "")
	check(1, 2, "g")
}

func TestParseBytesLastRowWithoutTrailingNewline(t *testing.T) {
	rows := ParseBytes([]byte("x,y"), ',', DoubleQuote)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if got, want := rows[0], []string{"x", "y"}; !equalSlice(got, want) {
		t.Errorf("rows[0] = %v, want %v", got, want)
	}
}

func TestParseBytesEmptyTrailingFieldsRetained(t *testing.T) {
	rows := ParseBytes([]byte("a,,\n"), ',', DoubleQuote)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if got, want := rows[0], []string{"a", "", ""}; !equalSlice(got, want) {
		t.Errorf("rows[0] = %v, want %v", got, want)
	}
}

func TestParseBytesSingleQuoteStyle(t *testing.T) {
	rows := ParseBytes([]byte("'a,b',c\n"), ',', SingleQuote)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if got, want := rows[0], []string{"a,b", "c"}; !equalSlice(got, want) {
		t.Errorf("rows[0] = %v, want %v", got, want)
	}
}

func TestParseBytesEmptyInputProducesNoRows(t *testing.T) {
	rows := ParseBytes(nil, ',', DoubleQuote)
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func equalSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
