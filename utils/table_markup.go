package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML is passed through since table models answer in either markup.
var markdownTables = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ParseMarkdownTables converts the markdown tables a table-recognition OCR
// model returns into raw rows.
func ParseMarkdownTables(md string) ([]dto.RawRow, error) {
	var buf bytes.Buffer
	if err := markdownTables.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown tables: %w", err)
	}
	return ParseHTMLTables(buf.String())
}

// ParseHTMLTables reads every <tr> of every table in html. Header cells
// name the columns of the rows below them; colspan cells repeat as empty
// columns so values stay aligned.
func ParseHTMLTables(html string) ([]dto.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse table html: %w", err)
	}

	var rows []dto.RawRow
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var headers []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			isHeader := tr.Find("td").Length() == 0
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cleanCellText(cell.Text()))
				span, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
				for i := 1; i < span; i++ {
					cells = append(cells, "")
				}
			})
			if isHeader {
				headers = cells
			}

			row := make(dto.RawRow, 0, len(cells))
			for i, text := range cells {
				key := fmt.Sprintf("col_%d", i)
				if i < len(headers) && headers[i] != "" && !isHeader {
					key = headers[i]
				}
				var cell dto.RawCell = dto.EmptyCell{}
				if text != "" {
					cell = dto.TextCell(text)
				}
				row = append(row, dto.RawColumn{Key: key, Cell: cell})
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
		})
	})
	return rows, nil
}

func cleanCellText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
