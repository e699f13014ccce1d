package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/studyforge/studyforge/internal/classify"
	"github.com/studyforge/studyforge/internal/cleanup"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/document"
	"github.com/studyforge/studyforge/internal/extract"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/orchestrator"
	"github.com/studyforge/studyforge/internal/router"
	"github.com/studyforge/studyforge/internal/storage"
	"github.com/studyforge/studyforge/internal/topics"
)

// stubExtractor serves a canned extraction, sidestepping the PDF parse.
type stubExtractor struct {
	result *extract.Result
	err    error
}

func (s *stubExtractor) ExtractPages(context.Context, extract.Request) (*extract.Result, error) {
	return s.result, s.err
}

func fiveStudyPages() []document.Page {
	prose := func(s string) string { return strings.Repeat(s+" ", 8) }
	return []document.Page{
		document.NewPage(1, "Biology 101 Course Syllabus\nUniversity of Somewhere\nInstructor: Dr. Smith\nFall Semester"),
		document.NewPage(2, prose("Cells are the basic structural unit of living organisms.")),
		document.NewPage(3, prose("The plasma membrane regulates transport into the cell.")),
		document.NewPage(4, prose("Mitochondria generate ATP through cellular respiration.")),
		document.NewPage(5, prose("Enzymes lower the activation energy of reactions.")),
	}
}

func batchReply(n int) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = `{"classification":"content","confidence":0.8,"reasoning":"instructional prose"}`
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func newTestPipeline(client genai.Client, ext Extractor, store storage.Store) *Pipeline {
	orch := orchestrator.New(orchestrator.Config{
		Client: client,
		Router: router.New(config.ModelsConfig{}),
	})
	return New(Config{
		Extractor:  ext,
		Classifier: classify.NewBatchClassifier(orch, nil),
		Cleaner:    cleanup.New(cleanup.Options{}),
		Topics:     topics.New(orch, nil),
		Orch:       orch,
		Store:      store,
	})
}

func TestProcessEndToEnd(t *testing.T) {
	pages := fiveStudyPages()
	ext := &stubExtractor{result: &extract.Result{Pages: pages, TotalPages: 5}}

	// One batch classification call for the four review-flagged prose
	// pages, then one topics call.
	client := &genai.MockClient{Script: []genai.MockReply{
		{Text: batchReply(4)},
		{Text: `["cell structure", "membrane transport", "cellular respiration"]`},
	}}

	store := storage.NewMemoryStore()
	pipe := newTestPipeline(client, ext, store)

	res, err := pipe.Process(context.Background(), Request{
		DocumentID: "doc-1",
		UserID:     "user-1",
		PDFBase64:  "JVBERi0xLjQ=",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	// The cover page is filtered; the four prose pages survive.
	if res.PageCount != 4 {
		t.Errorf("page count = %d, want 4", res.PageCount)
	}
	if res.OriginalPageCount != 5 || res.FilteredPageCount != 1 {
		t.Errorf("counts = %d original, %d filtered", res.OriginalPageCount, res.FilteredPageCount)
	}
	if res.AIClassificationsUsed != 4 {
		t.Errorf("ai classifications = %d, want 4", res.AIClassificationsUsed)
	}
	if len(res.PageMetadata) != 5 {
		t.Errorf("metadata rows = %d, want one per original page", len(res.PageMetadata))
	}
	if res.PageMetadata[0].Classification != document.ClassCover || !res.PageMetadata[0].Filtered {
		t.Errorf("page 1 metadata = %+v, want filtered cover", res.PageMetadata[0])
	}
	if len(res.Topics) != 3 {
		t.Errorf("topics = %v", res.Topics)
	}
	if strings.Contains(res.ExtractedText, "--- Page 1 ---") {
		t.Error("filtered cover page leaked into extracted text")
	}
	if !strings.Contains(res.CleanedData.Text, "--- Page 2 ---") {
		t.Errorf("cleaned text missing kept page:\n%s", res.CleanedData.Text)
	}

	st := store.Get("doc-1")
	if st == nil || st.Status != storage.StatusReady {
		t.Fatalf("store state = %+v, want ready", st)
	}
	if len(st.Result) == 0 {
		t.Error("final result not persisted")
	}
}

func TestProcessExtractionFailure(t *testing.T) {
	ext := &stubExtractor{err: &extract.ExtractionError{Reason: "invalid PDF: broken xref"}}
	store := storage.NewMemoryStore()
	pipe := newTestPipeline(&genai.MockClient{}, ext, store)

	_, err := pipe.Process(context.Background(), Request{DocumentID: "doc-2", PDFBase64: "JVBERi0xLjQ="})
	if err == nil {
		t.Fatal("expected extraction error")
	}

	st := store.Get("doc-2")
	if st.Status != storage.StatusFailed {
		t.Fatalf("status = %s, want failed", st.Status)
	}
	if st.Failure == nil || st.Failure.Stage != "extraction" {
		t.Errorf("failure = %+v, want extraction stage", st.Failure)
	}
}

func TestProcessTopicFailureIsNonFatal(t *testing.T) {
	pages := fiveStudyPages()
	ext := &stubExtractor{result: &extract.Result{Pages: pages, TotalPages: 5}}

	client := &genai.MockClient{Script: []genai.MockReply{
		{Text: batchReply(4)},
		{Text: "no json here, sorry"},
	}}

	store := storage.NewMemoryStore()
	pipe := newTestPipeline(client, ext, store)

	res, err := pipe.Process(context.Background(), Request{DocumentID: "doc-3", PDFBase64: "JVBERi0xLjQ="})
	if err != nil {
		t.Fatalf("topic failure should not fail the document: %v", err)
	}
	if len(res.Topics) != 0 {
		t.Errorf("topics = %v, want none", res.Topics)
	}
	if store.Get("doc-3").Status != storage.StatusReady {
		t.Errorf("status = %s, want ready", store.Get("doc-3").Status)
	}
}

func TestProcessRejectsMissingDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	pipe := newTestPipeline(&genai.MockClient{}, &stubExtractor{}, store)

	if _, err := pipe.Process(context.Background(), Request{DocumentID: "doc-4"}); err == nil {
		t.Fatal("expected error when neither file path nor payload is set")
	}
	if st := store.Get("doc-4"); st == nil || st.Status != storage.StatusFailed {
		t.Errorf("state = %+v, want failed", st)
	}
}

func TestProcessGeneratesDocumentID(t *testing.T) {
	pages := fiveStudyPages()
	ext := &stubExtractor{result: &extract.Result{Pages: pages, TotalPages: 5}}
	client := &genai.MockClient{Script: []genai.MockReply{
		{Text: batchReply(4)},
		{Text: `["cells"]`},
	}}

	pipe := newTestPipeline(client, ext, storage.NewMemoryStore())
	if _, err := pipe.Process(context.Background(), Request{PDFBase64: "JVBERi0xLjQ="}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
}
