package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cmdelgado/tip-distribution-service/client"
	"github.com/cmdelgado/tip-distribution-service/dto"
	"github.com/cmdelgado/tip-distribution-service/utils"
)

// ReportService turns an uploaded partner-hours report (image or PDF) into
// partner records. Text acquisition cascades: embedded PDF text first, the
// remote layout-analysis service next, local Tesseract OCR last. Whatever
// terminal payload wins is handed to the extraction cascade exactly once.
type ReportService struct {
	analysisClient  *client.DocAnalysisClient
	tesseractClient *client.TesseractClient
	pdfProcessor    PDFProcessor
	granularity     dto.MatchGranularity
}

func NewReportService(
	analysisClient *client.DocAnalysisClient,
	tesseractClient *client.TesseractClient,
	pdfProcessor PDFProcessor,
	granularity dto.MatchGranularity,
) *ReportService {
	return &ReportService{
		analysisClient:  analysisClient,
		tesseractClient: tesseractClient,
		pdfProcessor:    pdfProcessor,
		granularity:     granularity,
	}
}

// ExtractFromUpload acquires text from the uploaded report and runs record
// extraction. An empty record list with no error is a valid outcome: the
// caller should offer manual entry.
func (s *ReportService) ExtractFromUpload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.ExtractResponse, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileHeader.Filename, err)
	}

	payload, source, err := s.acquirePayload(ctx, fileHeader, data)
	if err != nil {
		return nil, err
	}

	records := utils.ExtractPartnerRecords(payload, utils.ExtractOptions{Granularity: s.granularity})
	if records == nil {
		records = []dto.PartnerRecord{}
	}
	log.Printf("Extracted %d record(s) from %s via %s", len(records), fileHeader.Filename, source)

	return &dto.ExtractResponse{
		Records:     records,
		Source:      source,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}, nil
}

func (s *ReportService) acquirePayload(ctx context.Context, fileHeader *multipart.FileHeader, data []byte) (dto.AnalyzeResult, string, error) {
	isPDF := strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf")

	// Digital PDFs keep their text layer; no OCR needed.
	if isPDF {
		text, err := s.pdfProcessor.ExtractText(data)
		if err != nil {
			log.Printf("PDF text extraction failed for %s: %v", fileHeader.Filename, err)
		}
		if len(strings.TrimSpace(text)) >= 20 {
			return dto.AnalyzeResult{Content: text}, "pdf_text", nil
		}
		log.Printf("PDF %s seems to be scanned or has minimal text, falling back to OCR", fileHeader.Filename)
	}

	// Remote layout analysis: the only path that can return cell tables.
	if s.analysisClient != nil {
		result, err := s.analysisClient.Analyze(ctx, data, http.DetectContentType(data))
		if err != nil {
			log.Printf("Document analysis failed for %s: %v", fileHeader.Filename, err)
		} else if len(result.Tables) > 0 || strings.TrimSpace(result.Content) != "" {
			return *result, "layout_analysis", nil
		}
	}

	// Local Tesseract fallback.
	text, err := s.tesseractText(fileHeader, data, isPDF)
	if err != nil {
		return dto.AnalyzeResult{}, "", fmt.Errorf("all text extraction paths failed for %s: %w", fileHeader.Filename, err)
	}
	return dto.AnalyzeResult{Content: text}, "tesseract", nil
}

func (s *ReportService) tesseractText(fileHeader *multipart.FileHeader, data []byte, isPDF bool) (string, error) {
	if !isPDF {
		return s.tesseractClient.ExtractTextFromFile(fileHeader)
	}

	images, err := s.pdfProcessor.ExtractImages(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("scanned PDF contains no extractable images")
	}

	var combined strings.Builder
	pages := 0
	for _, img := range images {
		pageText, err := s.tesseractClient.ExtractTextFromImage(img)
		if err != nil {
			log.Printf("OCR failed for a page in %s: %v", fileHeader.Filename, err)
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
		pages++
	}
	if pages == 0 {
		return "", fmt.Errorf("OCR produced no text from any page")
	}
	return combined.String(), nil
}
