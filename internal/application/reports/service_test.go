package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	domai "github.com/healtrack/healtrack-api/internal/domain/ai"
	"github.com/healtrack/healtrack-api/internal/domain/analysis"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
)

//
// ==== PORT FAKES ====
//

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// memRepo keeps reports individually addressable, mirroring the row-per-report
// persistence model.
type memRepo struct {
	mu      sync.Mutex
	records map[string][]*domain.Report // userID -> ordered reports
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string][]*domain.Report{}}
}

func (m *memRepo) Append(_ context.Context, userID string, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records[userID] = append(m.records[userID], &cp)
	return nil
}

func (m *memRepo) Get(_ context.Context, userID string, id domain.ReportID) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records[userID] {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func (m *memRepo) List(_ context.Context, userID string) ([]*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Report, 0, len(m.records[userID]))
	for _, r := range m.records[userID] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) SetAnalysis(_ context.Context, userID string, id domain.ReportID, res *analysis.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records[userID] {
		if r.ID == id {
			r.Analysis = res
			r.Status = domain.StatusAnalyzed
			t := res.AnalyzedAt
			r.AnalyzedAt = &t
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func (m *memRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.records[userID]))
	delete(m.records, userID)
	return n, nil
}

type fakeFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	signErr error
}

func newFakeFiles() *fakeFiles { return &fakeFiles{objects: map[string][]byte{}} }

func (f *fakeFiles) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = b
	return key, nil
}

func (f *fakeFiles) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://files.example/" + key + "?sig=abc", nil
}

func (f *fakeFiles) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fakeAI struct {
	extractText string
	extractErr  error
	analyzeErr  error
	analyzed    *analysis.Result
	calls       int
}

func (a *fakeAI) AnalyzeDocument(_ context.Context, text, docType string) (*analysis.Result, error) {
	a.calls++
	if a.analyzeErr != nil {
		return nil, a.analyzeErr
	}
	if a.analyzed != nil {
		return a.analyzed, nil
	}
	return analysis.Sanitize(map[string]any{
		"summary":   "Live analysis",
		"riskLevel": "low",
	}, analysis.SourceAI, time.Now()), nil
}

func (a *fakeAI) ExtractText(_ context.Context, _ string) (string, error) {
	if a.extractErr != nil {
		return "", a.extractErr
	}
	return a.extractText, nil
}

func (a *fakeAI) GenerateInsight(_ context.Context, _ string) (string, error) {
	return "Stay hydrated!", nil
}

func newService(repo *memRepo, files *fakeFiles, ai *fakeAI) *Service {
	return &Service{
		Repo:  repo,
		Files: files,
		AI:    ai,
		Clock: fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func jpegUpload(user string, size int) UploadCommand {
	return UploadCommand{
		UserID:   user,
		FileName: "labs.jpg",
		MimeType: "image/jpeg",
		Content:  bytes.Repeat([]byte{0xFF}, size),
	}
}

//
// ==== UPLOAD ====
//

func TestUploadStoresFileAndAppendsReport(t *testing.T) {
	repo, files, ai := newMemRepo(), newFakeFiles(), &fakeAI{extractText: "Total Cholesterol 245 mg/dL"}
	svc := newService(repo, files, ai)

	res, err := svc.Upload(context.Background(), jpegUpload("user-1", 50*1024))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.Status != domain.StatusUploaded {
		t.Fatalf("status = %q, want uploaded", res.Status)
	}
	if !res.HasExtractedText {
		t.Fatalf("extraction succeeded but hasExtractedText=false")
	}
	if len(files.objects) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(files.objects))
	}

	stored, err := repo.Get(context.Background(), "user-1", domain.ReportID(res.ReportID))
	if err != nil {
		t.Fatalf("get stored report: %v", err)
	}
	if stored.ExtractedText != "Total Cholesterol 245 mg/dL" {
		t.Fatalf("extracted text not persisted: %q", stored.ExtractedText)
	}
	if stored.Analysis != nil {
		t.Fatalf("analysis must be nil until analyze runs")
	}
}

func TestUploadExtractionFailureIsNonFatal(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{extractErr: errors.New("vision api down")}
	svc := newService(repo, files, ai)

	res, err := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	if err != nil {
		t.Fatalf("upload must survive extraction failure: %v", err)
	}
	if res.Status != domain.StatusUploaded {
		t.Fatalf("status = %q, want uploaded", res.Status)
	}
	if res.HasExtractedText {
		t.Fatalf("sentinel text must count as not-extracted")
	}

	stored, _ := repo.Get(context.Background(), "user-1", domain.ReportID(res.ReportID))
	if stored.ExtractedText != domain.ExtractionFailedSentinel {
		t.Fatalf("sentinel not recorded: %q", stored.ExtractedText)
	}
}

func TestUploadStorageFailureLeavesNoRecord(t *testing.T) {
	repo, files, ai := newMemRepo(), newFakeFiles(), &fakeAI{}
	files.putErr = errors.New("bucket unavailable")
	svc := newService(repo, files, ai)

	_, err := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("want ErrStorageFailure, got %v", err)
	}
	list, _ := repo.List(context.Background(), "user-1")
	if len(list) != 0 {
		t.Fatalf("no report may be appended on storage failure, got %d", len(list))
	}
}

func TestUploadSkipsExtractionForPDF(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{extractText: "should never be called"}
	svc := newService(repo, files, ai)

	res, err := svc.Upload(context.Background(), UploadCommand{
		UserID:   "user-1",
		FileName: "labs.pdf",
		MimeType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.HasExtractedText {
		t.Fatalf("PDFs must not get extracted text in this workflow")
	}
}

func TestUploadValidation(t *testing.T) {
	svc := newService(newMemRepo(), newFakeFiles(), &fakeAI{})
	cases := []struct {
		name string
		cmd  UploadCommand
	}{
		{"empty file", UploadCommand{UserID: "u", FileName: "a.jpg", MimeType: "image/jpeg"}},
		{"oversized", jpegUpload("u", domain.MaxUploadBytes+1)},
		{"bad mime", UploadCommand{UserID: "u", FileName: "a.exe", MimeType: "application/x-msdownload", Content: []byte{1}}},
		{"missing user", UploadCommand{FileName: "a.jpg", MimeType: "image/jpeg", Content: []byte{1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Upload(context.Background(), tc.cmd); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

//
// ==== ANALYZE ====
//

func TestAnalyzeUnknownReport(t *testing.T) {
	svc := newService(newMemRepo(), newFakeFiles(), &fakeAI{})
	_, err := svc.Analyze(context.Background(), "user-1", "b3a4c6de-0000-4000-8000-000000000000", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAnalyzeRoundTrip(t *testing.T) {
	repo, files, ai := newMemRepo(), newFakeFiles(), &fakeAI{extractText: "LDL 165 mg/dL"}
	svc := newService(repo, files, ai)

	up, err := svc.Upload(context.Background(), jpegUpload("user-1", 50*1024))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	res, err := svc.Analyze(context.Background(), "user-1", domain.ReportID(up.ReportID), "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	switch res.RiskLevel {
	case analysis.RiskLow, analysis.RiskModerate, analysis.RiskHigh, analysis.RiskCritical:
	default:
		t.Fatalf("invalid risk level %q", res.RiskLevel)
	}
	found := false
	for _, r := range res.Recommendations {
		if strings.Contains(r, "healthcare provider") {
			found = true
		}
	}
	if !found {
		t.Fatalf("recommendations must mention a healthcare provider: %v", res.Recommendations)
	}
	if res.Source != analysis.SourceAI {
		t.Fatalf("live analysis should be marked ai, got %q", res.Source)
	}

	stored, _ := repo.Get(context.Background(), "user-1", domain.ReportID(up.ReportID))
	if stored.Status != domain.StatusAnalyzed {
		t.Fatalf("status not flipped, got %q", stored.Status)
	}
	if stored.Analysis == nil {
		t.Fatalf("analysis not persisted")
	}
}

func TestAnalyzeFallbackOnAnalyzerFailure(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{extractText: "some text", analyzeErr: domai.ErrAnalysisUnavailable}
	svc := newService(repo, files, ai)

	up, _ := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	res, err := svc.Analyze(context.Background(), "user-1", domain.ReportID(up.ReportID), "")
	if err != nil {
		t.Fatalf("analyze must absorb analyzer failure: %v", err)
	}
	if res.Source != analysis.SourceFallback {
		t.Fatalf("want fallback result, got source %q", res.Source)
	}
}

func TestAnalyzeFallbackWithoutExtractedText(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{} // extraction yields empty text
	svc := newService(repo, files, ai)

	up, _ := svc.Upload(context.Background(), UploadCommand{
		UserID: "user-1", FileName: "scan.pdf", MimeType: "application/pdf", Content: []byte("%PDF"),
	})
	res, err := svc.Analyze(context.Background(), "user-1", domain.ReportID(up.ReportID), "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Source != analysis.SourceFallback {
		t.Fatalf("reports without text must use the fallback, got %q", res.Source)
	}
	if ai.calls != 0 {
		t.Fatalf("analyzer must not be called without extracted text")
	}
}

func TestAnalyzeSentinelTextUsesFallback(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{extractErr: errors.New("vision down")}
	svc := newService(repo, files, ai)

	up, _ := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	res, err := svc.Analyze(context.Background(), "user-1", domain.ReportID(up.ReportID), "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Source != analysis.SourceFallback {
		t.Fatalf("sentinel text must route to fallback, got %q", res.Source)
	}
	if ai.calls != 0 {
		t.Fatalf("analyzer must not see the sentinel string")
	}
}

func TestReanalyzeOverwritesPreviousResult(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{extractText: "text"}
	svc := newService(repo, files, ai)

	up, _ := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	id := domain.ReportID(up.ReportID)

	if _, err := svc.Analyze(context.Background(), "user-1", id, ""); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	// Analyzer starts failing: the second run replaces the live result with
	// the fallback; status stays analyzed.
	ai.analyzeErr = domai.ErrAnalysisUnavailable
	if _, err := svc.Analyze(context.Background(), "user-1", id, ""); err != nil {
		t.Fatalf("second analyze: %v", err)
	}

	stored, _ := repo.Get(context.Background(), "user-1", id)
	if stored.Status != domain.StatusAnalyzed {
		t.Fatalf("status must stay analyzed, got %q", stored.Status)
	}
	if stored.Analysis.Source != analysis.SourceFallback {
		t.Fatalf("re-analysis must overwrite the result, got %q", stored.Analysis.Source)
	}
}

func TestConcurrentAnalyzeDifferentReports(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{extractText: "text"}
	svc := newService(repo, files, ai)

	up1, _ := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	up2, _ := svc.Upload(context.Background(), jpegUpload("user-1", 2048))

	// With row-per-report persistence, concurrent analyses of different
	// reports for the same user must both land.
	var wg sync.WaitGroup
	for _, id := range []string{up1.ReportID, up2.ReportID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := svc.Analyze(context.Background(), "user-1", domain.ReportID(id), ""); err != nil {
				t.Errorf("analyze %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	list, _ := repo.List(context.Background(), "user-1")
	for _, r := range list {
		if r.Analysis == nil {
			t.Fatalf("analysis lost for report %s", r.ID)
		}
	}
}

//
// ==== LIST ====
//

func TestListResolvesSignedURLs(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	svc := newService(repo, files, &fakeAI{extractText: "t"})

	if _, err := svc.Upload(context.Background(), jpegUpload("user-1", 1024)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 report, got %d", len(list))
	}
	if !strings.HasPrefix(list[0].SignedURL, "https://files.example/") {
		t.Fatalf("signed url not resolved: %q", list[0].SignedURL)
	}
}

func TestListSigningFailureDegrades(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	svc := newService(repo, files, &fakeAI{})

	if _, err := svc.Upload(context.Background(), jpegUpload("user-1", 1024)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	files.signErr = errors.New("presign failed")

	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list must not fail on signing errors: %v", err)
	}
	if list[0].SignedURL != "" {
		t.Fatalf("expected empty signed url on failure")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	svc := newService(repo, files, &fakeAI{})

	var ids []string
	for i := 0; i < 3; i++ {
		up, err := svc.Upload(context.Background(), jpegUpload("user-1", 1024+i))
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		ids = append(ids, up.ReportID)
	}
	list, _ := svc.List(context.Background(), "user-1")
	for i, r := range list {
		if string(r.ID) != ids[i] {
			t.Fatalf("order broken at %d: got %s want %s", i, r.ID, ids[i])
		}
	}
}

//
// ==== INSIGHT SUPPORT ====
//

func TestLatestAnalyzedFindings(t *testing.T) {
	repo, files := newMemRepo(), newFakeFiles()
	ai := &fakeAI{
		extractText: "t",
		analyzed: analysis.Sanitize(map[string]any{
			"summary": "ok",
			"keyFindings": []any{
				map[string]any{"finding": "A", "risk": "low"},
				map[string]any{"finding": "B", "risk": "low"},
				map[string]any{"finding": "C", "risk": "low"},
			},
		}, analysis.SourceAI, time.Now()),
	}
	svc := newService(repo, files, ai)

	// No reports yet
	s, err := svc.LatestAnalyzedFindings(context.Background(), "user-1", 2)
	if err != nil || s != "" {
		t.Fatalf("expected empty findings, got %q err=%v", s, err)
	}

	up, _ := svc.Upload(context.Background(), jpegUpload("user-1", 1024))
	if _, err := svc.Analyze(context.Background(), "user-1", domain.ReportID(up.ReportID), ""); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	s, err = svc.LatestAnalyzedFindings(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("findings: %v", err)
	}
	if !strings.Contains(s, `"A"`) || strings.Contains(s, `"C"`) {
		t.Fatalf("findings not truncated to 2: %s", s)
	}
}
