package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"video-analyzer/internal/types"
)

const (
	fontName = "Times New Roman"
	fontSize = 12
)

// SaveDocx renders the analysis as a Word document with one section per
// report part.
func SaveDocx(analysis *types.VideoAnalysis, path string) error {
	if analysis == nil {
		return fmt.Errorf("nothing to export")
	}
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addRun(doc.AddParagraph(""), analysis.Title, true, 16)
	addRun(doc.AddParagraph(""), "Duration: "+analysis.Duration, false, fontSize)

	addHeading(doc, "Summary")
	for _, para := range strings.Split(analysis.Summary, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			addRun(doc.AddParagraph(""), para, false, fontSize)
		}
	}
	addRun(doc.AddParagraph(""), "[Word count: "+strconv.Itoa(len(strings.Fields(analysis.Summary)))+" words]", false, 10)

	addHeading(doc, "Key Timestamps")
	if len(analysis.KeyTimestamps) == 0 {
		addRun(doc.AddParagraph(""), "No timestamps extracted", false, fontSize)
	}
	for _, ts := range analysis.KeyTimestamps {
		p := doc.AddParagraph("")
		addRun(p, "["+ts.Timestamp+"] ", true, fontSize)
		addRun(p, ts.Description, false, fontSize)
	}

	addHeading(doc, "Main Themes")
	if len(analysis.Themes) == 0 {
		addRun(doc.AddParagraph(""), "No themes identified", false, fontSize)
	}
	for i, theme := range analysis.Themes {
		addRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", i+1, theme), false, fontSize)
	}

	addHeading(doc, "Content Breakdown")
	sections := []struct{ name, text string }{
		{"Introduction", analysis.ContentBreakdown.Introduction},
		{"Main Content", analysis.ContentBreakdown.MainContent},
		{"Conclusion", analysis.ContentBreakdown.Conclusion},
	}
	for _, section := range sections {
		addRun(doc.AddParagraph(""), section.name, true, 13)
		addRun(doc.AddParagraph(""), section.text, false, fontSize)
	}

	if err = doc.SaveTo(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func addHeading(doc *docx.RootDoc, text string) {
	doc.AddParagraph("")
	addRun(doc.AddParagraph(""), text, true, 14)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
