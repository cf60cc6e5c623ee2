package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageContent is the text layer of one PDF page, both as lines and as
// cell-split rows.
type PageContent struct {
	Number int
	Text   string
	Rows   []dto.RawRow
}

type PDFProcessor interface {
	ExtractPages(pdfData []byte, password string) ([]PageContent, error)
	ExtractImages(pdfData []byte, password string) ([]image.Image, error)
}

const (
	// Gaps wider than cellGap font sizes start a new cell; wider than
	// wordGap insert a space.
	cellGap = 1.5
	wordGap = 0.2

	defaultFontSize = 10.0
)

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) openReader(pdfData []byte, password string) (*pdf.Reader, error) {
	ra := bytes.NewReader(pdfData)
	if password == "" {
		return pdf.NewReader(ra, int64(len(pdfData)))
	}
	offered := false
	return pdf.NewReaderEncrypted(ra, int64(len(pdfData)), func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
}

// ExtractPages reads the text layer row by row. Words on a row are grouped
// into cells by horizontal gaps so table columns survive.
func (p *pdfProcessor) ExtractPages(pdfData []byte, password string) (pages []PageContent, err error) {
	// the pdf reader panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf text layer: %v", r)
		}
	}()

	r, err := p.openReader(pdfData, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}

		content := PageContent{Number: pageIndex}
		var text strings.Builder
		for _, row := range rows {
			cells := rowCells(row.Content)
			if len(cells) == 0 {
				continue
			}
			text.WriteString(strings.Join(cells, "  "))
			text.WriteString("\n")
			content.Rows = append(content.Rows, dto.TextRow(cells...))
		}
		content.Text = text.String()
		pages = append(pages, content)
	}
	return pages, nil
}

func rowCells(words pdf.TextHorizontal) []string {
	sorted := make([]pdf.Text, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.S) != "" {
			sorted = append(sorted, w)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []string
	var cur strings.Builder
	lastEnd := -1.0
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}

	for _, w := range sorted {
		size := w.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		if lastEnd >= 0 {
			gap := w.X - lastEnd
			switch {
			case gap > size*cellGap:
				flush()
			case gap > size*wordGap:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(w.S)
		lastEnd = w.X + w.W
	}
	flush()
	return cells
}

// ExtractImages pulls embedded page images out of a scanned PDF.
func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}

	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}
	sortByPage(files)

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

// imagePage reads the page number from a pdfcpu image file name,
// "<base>_<page>_<image>.<ext>". Unparseable names sort last.
func imagePage(name string) int {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 {
		return math.MaxInt
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return math.MaxInt
	}
	return page
}

func sortByPage(files []os.DirEntry) {
	sort.SliceStable(files, func(i, j int) bool {
		pi, pj := imagePage(files[i].Name()), imagePage(files[j].Name())
		if pi != pj {
			return pi < pj
		}
		return files[i].Name() < files[j].Name()
	})
}
