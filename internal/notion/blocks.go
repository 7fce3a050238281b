package notion

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// MaxTextLength is the API limit for the content of a single text run
const MaxTextLength = 2000

// BlockType selects how a letter is appended under a page
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockCode      BlockType = "code"
)

// ParseBlockType validates a block type name
func ParseBlockType(s string) (BlockType, error) {
	switch BlockType(s) {
	case BlockParagraph, BlockCode:
		return BlockType(s), nil
	case "":
		return BlockParagraph, nil
	default:
		return "", fmt.Errorf("unsupported block type %q: must be paragraph or code", s)
	}
}

type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

type ParagraphBlock struct {
	RichText []RichText `json:"rich_text"`
}

type CodeBlock struct {
	Caption  []RichText `json:"caption"`
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// Block is a child block as accepted by the append-children endpoint
type Block struct {
	Object    string          `json:"object"`
	Type      BlockType       `json:"type"`
	Paragraph *ParagraphBlock `json:"paragraph,omitempty"`
	Code      *CodeBlock      `json:"code,omitempty"`
}

type appendChildrenRequest struct {
	Children []Block `json:"children"`
}

// SplitText cuts text into chunks of at most max code points. A chunk boundary
// never falls inside a multi-byte character.
func SplitText(text string, max int) []string {
	var chunks []string
	for len(text) > 0 {
		i, n := 0, 0
		for i < len(text) && n < max {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			n++
		}
		chunks = append(chunks, text[:i])
		text = text[i:]
	}
	return chunks
}

// BuildRichText wraps text into text runs that respect MaxTextLength
func BuildRichText(text string) []RichText {
	chunks := SplitText(text, MaxTextLength)
	runs := make([]RichText, 0, len(chunks))
	for _, chunk := range chunks {
		runs = append(runs, RichText{Type: "text", Text: TextContent{Content: chunk}})
	}
	return runs
}

// BuildBlock creates a paragraph or code block holding text
func BuildBlock(text string, bt BlockType) Block {
	runs := BuildRichText(text)
	if bt == BlockCode {
		return Block{
			Object: "block",
			Type:   BlockCode,
			Code: &CodeBlock{
				Caption:  []RichText{},
				RichText: runs,
				Language: "plain text",
			},
		}
	}
	return Block{
		Object:    "block",
		Type:      BlockParagraph,
		Paragraph: &ParagraphBlock{RichText: runs},
	}
}

// AppendBlock appends text as a single block under the given block or page
func (c *Client) AppendBlock(ctx context.Context, blockID, text string, bt BlockType) error {
	url := fmt.Sprintf("%s/blocks/%s/children", c.baseURL, blockID)
	body := appendChildrenRequest{Children: []Block{BuildBlock(text, bt)}}
	if err := doJSON(ctx, c.http, http.MethodPatch, url, c.Header(), body, nil); err != nil {
		return fmt.Errorf("append %s block to %s: %w", bt, blockID, err)
	}
	return nil
}
