package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/getclever/docqa/internal/core/domain"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeVectorStore struct {
	searchResult []domain.Candidate
	searchErr    error
	indexed      []domain.Chunk
	dropCalls    int
}

func (f *fakeVectorStore) IndexChunks(_ context.Context, chunks []domain.Chunk, _ [][]float32) error {
	f.indexed = append(f.indexed, chunks...)
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, _ int) ([]domain.Candidate, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeVectorStore) Drop(context.Context) error {
	f.dropCalls++
	return nil
}

type fakeKeywordIndex struct {
	searchResult []domain.Candidate
	added        []domain.Chunk
	resetCalls   int
}

func (f *fakeKeywordIndex) Add(chunks []domain.Chunk) {
	f.added = append(f.added, chunks...)
}

func (f *fakeKeywordIndex) Search(query string, _ int) []domain.Candidate {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return f.searchResult
}

func (f *fakeKeywordIndex) Reset() {
	f.resetCalls++
}

type fakeGenerator struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeSessionStore struct {
	mu        sync.Mutex
	histories map[string]*domain.History
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{histories: make(map[string]*domain.History)}
}

func (f *fakeSessionStore) History(sessionID string) *domain.History {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.histories[sessionID]
	if !ok {
		h = domain.NewHistory(domain.HistoryCapacity)
		f.histories[sessionID] = h
	}
	return h
}

func (f *fakeSessionStore) Clear(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.histories, sessionID)
}

type fakeDocumentRepo struct {
	docs          map[string]*domain.Document
	statusUpdates []string
	chunkCounts   map[string]int
	createErr     error
	updateErr     error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:        make(map[string]*domain.Document),
		chunkCounts: make(map[string]int),
	}
}

func (f *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id "+id))
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusUpdates = append(f.statusUpdates, string(status))
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (f *fakeDocumentRepo) UpdateChunkCount(_ context.Context, id string, chunkCount int) error {
	f.chunkCounts[id] = chunkCount
	return nil
}

type fakeChunkRepo struct {
	saved      []domain.Chunk
	deleteAlls int
	saveErr    error
}

func (f *fakeChunkRepo) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, chunks...)
	return nil
}

func (f *fakeChunkRepo) ListChunks(context.Context) ([]domain.Chunk, error) {
	return f.saved, nil
}

func (f *fakeChunkRepo) DeleteAll(context.Context) error {
	f.deleteAlls++
	f.saved = nil
	return nil
}

type fakeStorage struct {
	saved map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string]string)}
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = string(raw)
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := f.saved[key]
	if !ok {
		return nil, errors.New("no such key: " + key)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type fakeQueue struct {
	published []string
	err       error
}

func (f *fakeQueue) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *fakeQueue) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(context.Context, *domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeChunker struct {
	pieces []string
}

func (f *fakeChunker) Split(string) []string {
	return f.pieces
}
