package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mailsift/internal/app/bootstrap"
	"mailsift/internal/config"
	"mailsift/internal/database"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mailinator.com\n"))
	}))
	defer server.Close()

	dir := t.TempDir()
	var cfg config.Config
	cfg.Denylist.URL = server.URL
	cfg.Classifier.InputPath = filepath.Join(dir, "email.csv")
	cfg.Classifier.OutputPath = filepath.Join(dir, "free_domain.csv")
	cfg.Classifier.BatchSize = 2

	writeFile(t, cfg.Classifier.InputPath, "email\nuser@Mailinator.com\nbob@naver.com\nceo@acme.io\n")

	if err := runClassify(context.Background(), cfg); err != nil {
		t.Fatalf("runClassify returned error: %v", err)
	}

	want := "\xEF\xBB\xBFemail,domain,category\n" +
		"user@Mailinator.com,mailinator.com,Anonymous/Privacy Service\n" +
		"bob@naver.com,naver.com,Public Portal\n" +
		"ceo@acme.io,acme.io,Company/Private\n"
	if got := readFile(t, cfg.Classifier.OutputPath); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestRunClassifyMissingInput(t *testing.T) {
	dir := t.TempDir()
	var cfg config.Config
	cfg.Classifier.InputPath = filepath.Join(dir, "missing.csv")
	cfg.Classifier.OutputPath = filepath.Join(dir, "out.csv")

	if err := runClassify(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunMergeAndEnrich(t *testing.T) {
	t.Cleanup(bootstrap.Shutdown)

	dir := t.TempDir()
	first := filepath.Join(dir, "regip.csv")
	second := filepath.Join(dir, "lastip.csv")
	writeFile(t, first, "IP Address,Country,Threat Type\n5.5.5.5,US,VPN\n1.2.3.4,FR,\n")
	writeFile(t, second, "ip,country_code,tags\n5.5.5.5,DE,tor exit\n")

	var cfg config.Config
	cfg.Merger.Sources = []string{first, filepath.Join(dir, "missing.xlsx"), second}
	cfg.Merger.OutputPath = filepath.Join(dir, "ip_database.js")
	cfg.Merger.ExportName = "IP_THREAT_DB"
	cfg.Merger.DatabaseDSN = "file:" + t.Name() + "?mode=memory&cache=shared"

	if err := runMerge(context.Background(), cfg); err != nil {
		t.Fatalf("runMerge returned error: %v", err)
	}

	literal := readFile(t, cfg.Merger.OutputPath)
	want := "export const IP_THREAT_DB = {\n" +
		"    \"5.5.5.5\": { country: \"DE\", tags: \"tor\" },\n" +
		"    \"1.2.3.4\": { country: \"FR\", tags: \"\" },\n" +
		"};\n"
	if literal != want {
		t.Fatalf("unexpected literal:\n%s", literal)
	}

	stored, err := database.ListThreatEntries(context.Background())
	if err != nil {
		t.Fatalf("ListThreatEntries: %v", err)
	}
	if len(stored) != 2 || stored[0].Address != "5.5.5.5" || stored[0].Country != "DE" {
		t.Fatalf("unexpected stored entries: %+v", stored)
	}

	cfg.Enrich.InputPath = filepath.Join(dir, "events.csv")
	cfg.Enrich.OutputPath = filepath.Join(dir, "events_enriched.csv")
	cfg.Enrich.ThreatTablePath = cfg.Merger.OutputPath
	writeFile(t, cfg.Enrich.InputPath, "user,login_ip\nalice,0x05050505\n")

	if err := runEnrich(context.Background(), cfg); err != nil {
		t.Fatalf("runEnrich returned error: %v", err)
	}

	enriched := readFile(t, cfg.Enrich.OutputPath)
	if !strings.Contains(enriched, "login_ip,login_ip_Country,login_ip_Tags") || !strings.Contains(enriched, "alice,5.5.5.5,DE,tor") {
		t.Fatalf("unexpected enriched output:\n%s", enriched)
	}
}

func TestRunEnrichWithoutThreatTable(t *testing.T) {
	dir := t.TempDir()
	var cfg config.Config
	cfg.Enrich.InputPath = filepath.Join(dir, "events.csv")
	cfg.Enrich.OutputPath = filepath.Join(dir, "out.csv")
	cfg.Enrich.ThreatTablePath = filepath.Join(dir, "missing.js")
	writeFile(t, cfg.Enrich.InputPath, "ip\n1.1.1.1\n")

	if err := runEnrich(context.Background(), cfg); err != nil {
		t.Fatalf("runEnrich returned error: %v", err)
	}
	if got := readFile(t, cfg.Enrich.OutputPath); got != "\xEF\xBB\xBFip,ip_Country,ip_Tags\n1.1.1.1,,\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNewRootCommandRegistersPipelines(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"classify", "merge", "enrich"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %s not registered: %v", name, err)
		}
	}
}
