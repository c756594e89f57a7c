package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Mode", "Accuracy", "Correct"}
	rows := [][]string{
		{"words", "97.50%", "12"},
		{"scramble", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Mode     Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "words      97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "scramble    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Word", "N"}, [][]string{{"日本", "1"}, {"кіт", "2"}}, nil)
	if lines[1] != "日本 1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "кіт  2" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
