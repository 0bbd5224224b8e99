package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/etnz/invest"
	"github.com/etnz/invest/config"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file but
	// the readme is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	files, _ := filepath.Glob("*.md")
	if len(all) != len(files)-1 {
		t.Errorf("GetAllTopics() = %q, want every .md file but readme.md", all)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) must fail")
	}
	everything, err := GetTopic("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# Investment memos", "# Sync", "# Configuration"} {
		if !strings.Contains(everything, title) {
			t.Errorf("GetTopic(*) is missing %q", title)
		}
	}
	if !strings.Contains(Index(), "invsync topic") {
		t.Error("Index() is not the readme")
	}
}

// Block is a fenced code block of a topic.
type Block struct {
	Lang    string
	Content string
}

func codeBlocks(t *testing.T, topic string) []Block {
	t.Helper()
	content, err := GetTopic(topic)
	if err != nil {
		t.Fatal(err)
	}
	source := []byte(content)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, Block{Lang: string(fcb.Info.Segment.Value(source)), Content: b.String()})
		return ast.WalkContinue, nil
	})
	return blocks
}

func lines(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") }

func TestMemoExamples(t *testing.T) {
	checked := map[string]int{}
	for _, block := range codeBlocks(t, "memo") {
		for _, memo := range lines(block.Content) {
			checked[block.Lang]++
			switch block.Lang {
			case "memo":
				a, err := invest.ParseAction(invest.Transaction{Memo: memo, Amount: -1000})
				if err != nil {
					t.Errorf("documented memo %q: %v", memo, err)
					continue
				}
				if _, ok := a.(invest.Cash); ok {
					t.Errorf("documented memo %q parses as cash", memo)
				}
			case "value-update":
				if _, errs := invest.ParseValueUpdate(memo); len(errs) > 0 {
					t.Errorf("documented value update %q: %v", memo, errs)
				}
			case "invalid-memo":
				if _, err := invest.ParseAction(invest.Transaction{Memo: memo}); err == nil {
					t.Errorf("memo %q is documented as invalid but parses", memo)
				}
			default:
				t.Errorf("unexpected %q block", block.Lang)
			}
		}
	}
	for _, lang := range []string{"memo", "value-update", "invalid-memo"} {
		if checked[lang] == 0 {
			t.Errorf("no %q example checked", lang)
		}
	}
}

func TestConfigExample(t *testing.T) {
	var found bool
	for _, block := range codeBlocks(t, "config") {
		if block.Lang != "yaml" {
			continue
		}
		found = true
		cfg := config.Default()
		if err := yaml.Unmarshal([]byte(block.Content), cfg); err != nil {
			t.Fatalf("documented configuration does not parse: %v", err)
		}
		cfg.Token = "secret"
		cfg.EODHDKey = "demo"
		if err := cfg.Validate(); err != nil {
			t.Errorf("documented configuration is invalid: %v", err)
		}
		if cfg.CacheWindow != 15*time.Minute {
			t.Errorf("cache_window = %v, want 15m", cfg.CacheWindow)
		}
	}
	if !found {
		t.Error("no yaml example in the config topic")
	}
}
