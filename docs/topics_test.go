package docs

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// commands that the documentation may use in bash blocks.
var knownCommands = []string{
	"show", "history", "add-holder", "edit-holder", "remove-holder",
	"simulate", "commit", "revert", "query", "fmt", "topic", "assist",
}

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is
	// listed in readme.md.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in docs/readme.md", topic)
		}
	}
	if len(all) != len(topicsInReadme) {
		t.Errorf("readme.md lists %d topics, found %d files", len(topicsInReadme), len(all))
	}
}

func TestGetTopic(t *testing.T) {
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) should fail")
	}
	everything, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) error = %v", err)
	}
	for _, title := range []string{"# Shareholders", "# Funding Rounds", "# Valuation models"} {
		if !strings.Contains(everything, title) {
			t.Errorf("GetTopic(*) is missing %q", title)
		}
	}
	if strings.Contains(everything, "# captable documentation") {
		t.Error("GetTopic(*) should not include the readme")
	}
	if !strings.HasPrefix(Index(), "# captable documentation") {
		t.Error("Index() should return the readme")
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, block := range parseMarkdown(t, file) {
				if block.Type != "bash" {
					continue
				}
				for _, line := range strings.Split(strings.TrimSpace(block.Content), "\n") {
					checkCommandLine(t, block, line)
				}
			}
		})
	}
}

// checkCommandLine checks that a documented captable invocation uses a known command.
func checkCommandLine(t *testing.T, block *Block, line string) {
	t.Helper()
	fields := strings.Fields(line)
	i := slices.Index(fields, "captable")
	if i < 0 {
		return
	}
	// skip global flags
	for i++; i < len(fields) && strings.HasPrefix(fields[i], "-"); i++ {
	}
	if i >= len(fields) {
		return
	}
	if !slices.Contains(knownCommands, fields[i]) {
		t.Errorf("%s:%d: unknown command %q in %q", block.File, block.Line, fields[i], line)
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// parseMarkdown parses a markdown file and returns its fenced code blocks.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		var blockContent strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			blockContent.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    string(fcb.Info.Segment.Value(content)),
			Content: blockContent.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// lineNumber computes the line number of an offset in source.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
