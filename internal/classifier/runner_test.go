package classifier

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mailsift/internal/denylist"
	"mailsift/internal/domain"
	"mailsift/internal/support"
)

const bom = "\xEF\xBB\xBF"

func testRules() Rules {
	return Rules{
		Denylist: denylist.NewSet([]string{"throwaway.test"}),
		Curated:  denylist.NewSet([]string{"proton.me"}),
		Portals:  denylist.NewSet([]string{"gmail.com"}),
	}
}

const sampleInput = bom + "id,email,name\n" +
	"1,a@Proton.me,Alice\n" +
	"2,b@gmail.com,Bob\n" +
	"3,c@unknown-corp.io,\"Carol, Jr\"\n" +
	"4,broken,row,with,extra,fields\n" +
	"5,d@throwaway.test\n" +
	"6,,Eve\n" +
	"7,f@GMAIL.com ,Frank\n"

const sampleOutput = bom + "id,email,name,domain,category\n" +
	"1,a@Proton.me,Alice,proton.me,Anonymous/Privacy Service\n" +
	"2,b@gmail.com,Bob,gmail.com,Public Portal\n" +
	"3,c@unknown-corp.io,\"Carol, Jr\",unknown-corp.io,Company/Private\n" +
	"5,d@throwaway.test,,throwaway.test,Anonymous/Privacy Service\n" +
	"6,,Eve,,Company/Private\n" +
	"7,f@GMAIL.com ,Frank,gmail.com,Public Portal\n"

func runToString(t *testing.T, batchSize int, input string) (string, RunStats) {
	t.Helper()
	var out bytes.Buffer
	stats, err := NewRunner(testRules(), batchSize).Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run(batch=%d) returned error: %v", batchSize, err)
	}
	return out.String(), stats
}

func TestRunOutput(t *testing.T) {
	got, stats := runToString(t, 100000, sampleInput)
	if got != sampleOutput {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, sampleOutput)
	}
	if stats.Rows != 6 || stats.Skipped != 1 || stats.Batches != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ByCategory[domain.CategoryPortal] != 2 || stats.ByCategory[domain.CategoryAnonymous] != 2 {
		t.Fatalf("unexpected category counts %v", stats.ByCategory)
	}
}

func TestRunBatchSizeInvariance(t *testing.T) {
	for _, size := range []int{1, 3, 100000} {
		got, stats := runToString(t, size, sampleInput)
		if got != sampleOutput {
			t.Errorf("batch size %d produced different output:\n%s", size, got)
		}
		wantBatches := (6 + size - 1) / size
		if stats.Batches != wantBatches {
			t.Errorf("batch size %d: %d batches, want %d", size, stats.Batches, wantBatches)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	first, _ := runToString(t, 2, sampleInput)
	second, _ := runToString(t, 2, sampleInput)
	if first != second {
		t.Fatal("two runs over the same input produced different output")
	}
}

func TestRunReusesExistingColumns(t *testing.T) {
	input := "email,category,domain\nx@gmail.com,stale,stale.example\n"
	want := bom + "email,category,domain\nx@gmail.com,Public Portal,gmail.com\n"

	got, _ := runToString(t, 10, input)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunInputErrors(t *testing.T) {
	var out bytes.Buffer
	runner := NewRunner(testRules(), 10)

	if _, err := runner.Run(context.Background(), strings.NewReader("name,mail\nx,y\n"), &out); !errors.Is(err, ErrMissingEmailColumn) {
		t.Fatalf("expected ErrMissingEmailColumn, got %v", err)
	}
	if _, err := runner.Run(context.Background(), strings.NewReader(""), &out); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if _, err := NewRunner(testRules(), 1).Run(ctx, strings.NewReader(sampleInput), &out); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "email.csv")
	output := filepath.Join(dir, "out", "free_domain.csv")
	if err := os.WriteFile(input, []byte(sampleInput), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if _, err := NewRunner(testRules(), 2).RunFile(context.Background(), input, output); err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != sampleOutput {
		t.Fatalf("unexpected file output:\n%s", got)
	}

	if _, err := NewRunner(testRules(), 2).RunFile(context.Background(), filepath.Join(dir, "missing.csv"), output); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunUnterminatedQuoteAborts(t *testing.T) {
	input := "email,name\n\"a@gmail.com,Al\nb@proton.me,Bo\nc@corp.io,Cy\n"

	var out bytes.Buffer
	stats, err := NewRunner(testRules(), 100000).Run(context.Background(), strings.NewReader(input), &out)
	if !errors.Is(err, support.ErrUnterminatedQuote) {
		t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
	}
	if stats.Rows != 0 {
		t.Fatalf("no row should be classified, got %+v", stats)
	}
	if got, want := out.String(), bom+"email,name,domain,category\n"; got != want {
		t.Fatalf("output = %q, want header only %q", got, want)
	}
}

func TestRunUnterminatedQuoteKeepsEarlierRows(t *testing.T) {
	input := "email\na@gmail.com\nb@corp.io\n\"c@proton.me\nd@corp.io\n"

	var out bytes.Buffer
	stats, err := NewRunner(testRules(), 1).Run(context.Background(), strings.NewReader(input), &out)
	if !errors.Is(err, support.ErrUnterminatedQuote) {
		t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
	}

	want := bom + "email,domain,category\n" +
		"a@gmail.com,gmail.com,Public Portal\n" +
		"b@corp.io,corp.io,Company/Private\n"
	if got := out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if stats.Rows != 2 {
		t.Fatalf("expected 2 rows before the failure, got %+v", stats)
	}
}

func TestRunSkipsStrayQuote(t *testing.T) {
	input := "email,name\n" +
		"a@gmail.com,\"A\"l\"\n" +
		"b@proton.me,Bo\n"

	got, stats := runToString(t, 100000, input)
	want := bom + "email,name,domain,category\n" +
		"b@proton.me,Bo,proton.me,Anonymous/Privacy Service\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if stats.Skipped != 1 || stats.Rows != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRunKeepsNonUTF8Bytes(t *testing.T) {
	got, _ := runToString(t, 100000, "email,name\nx@gmail.com,Jos\xe9\n")
	want := bom + "email,name,domain,category\n" +
		"x@gmail.com,Jos\xe9,gmail.com,Public Portal\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
