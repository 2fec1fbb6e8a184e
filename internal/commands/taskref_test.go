package commands

import (
	"reflect"
	"testing"
)

func TestParseTaskRef_Number(t *testing.T) {
	n, err := ParseTaskRef("5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5, got %d", n)
	}
}

func TestParseTaskRef_Zero_Error(t *testing.T) {
	_, err := ParseTaskRef("0")
	if err == nil {
		t.Fatal("expected error for row 0")
	}
	expectedMsg := "invalid task number: 0"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_Invalid_Error(t *testing.T) {
	for _, arg := range []string{"", "a1", "-1", "1.5", "١"} {
		if _, err := ParseTaskRef(arg); err == nil {
			t.Errorf("expected error for %q", arg)
		}
	}
}

func TestParseTaskRefs_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRefs(nil)
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRefs_DropsDuplicates(t *testing.T) {
	refs, err := ParseTaskRefs([]string{"3", "1", "3", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(refs, []int{3, 1, 2}) {
		t.Errorf("expected [3 1 2], got %v", refs)
	}
}

func TestParseTaskRefs_InvalidToken_Error(t *testing.T) {
	_, err := ParseTaskRefs([]string{"1", "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid task number: x" {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestDescending(t *testing.T) {
	refs := []int{1, 3, 2}
	if got := descending(refs); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Errorf("expected [3 2 1], got %v", got)
	}
	if !reflect.DeepEqual(refs, []int{1, 3, 2}) {
		t.Error("descending must not modify its input")
	}
}
