package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/getclever/docqa/internal/core/domain"
)

func newChunkRepoWithMock(t *testing.T) (*ChunkRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ChunkRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestSaveChunksUpsertsInOneTransaction(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs("a.txt:0", "a.txt", 0, "alpha").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs("a.txt:1", "a.txt", 1, "beta").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveChunks(context.Background(), []domain.Chunk{
		{ID: "a.txt:0", SourceDocument: "a.txt", PositionIndex: 0, Text: "alpha"},
		{ID: "a.txt:1", SourceDocument: "a.txt", PositionIndex: 1, Text: "beta"},
	})
	if err != nil {
		t.Fatalf("SaveChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveChunksEmptyIsNoop(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	if err := repo.SaveChunks(context.Background(), nil); err != nil {
		t.Fatalf("SaveChunks(nil) error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListChunksScansOrderedRows(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "source_document", "position_index", "text"}).
		AddRow("a.txt:0", "a.txt", 0, "alpha").
		AddRow("b.txt:0", "b.txt", 0, "gamma")
	mock.ExpectQuery("SELECT id, source_document, position_index, text").
		WillReturnRows(rows)

	got, err := repo.ListChunks(context.Background())
	if err != nil {
		t.Fatalf("ListChunks() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].ID != "a.txt:0" || got[1].SourceDocument != "b.txt" {
		t.Fatalf("unexpected chunks: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM chunks").WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
