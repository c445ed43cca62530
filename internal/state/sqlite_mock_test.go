package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStoreWithDB(db, nil), mock
}

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	errDisk := errors.New("disk I/O error")
	ctx := context.Background()

	tests := []struct {
		name    string
		expect  func(mock sqlmock.Sqlmock)
		call    func(s *SQLiteStore) error
		wantErr string
	}{
		{
			name: "create run",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO check_runs").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.CreateRun(ctx, "t")
				return err
			},
			wantErr: "failed to create run",
		},
		{
			name: "complete run",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE check_runs").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				return s.CompleteRun(ctx, "id", 1, 0)
			},
			wantErr: "failed to complete run",
		},
		{
			name: "complete missing run",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE check_runs").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			call: func(s *SQLiteStore) error {
				return s.CompleteRun(ctx, "id", 1, 0)
			},
			wantErr: "run not found: id",
		},
		{
			name: "get run",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM check_runs WHERE id").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.GetRun(ctx, "id")
				return err
			},
			wantErr: "failed to get run",
		},
		{
			name: "recent runs",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM check_runs ORDER BY").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.RecentRuns(ctx, 5)
				return err
			},
			wantErr: "failed to list runs",
		},
		{
			name: "get result",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM check_results").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.GetResult(ctx, "a.pyi", "h", "t")
				return err
			},
			wantErr: "failed to get result",
		},
		{
			name: "save result",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO check_results").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				return s.SaveResult(ctx, &Result{Path: "a.pyi", ContentHash: "h", Target: "t"})
			},
			wantErr: "failed to save result",
		},
		{
			name: "delete results",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM check_results").WillReturnError(errDisk)
			},
			call: func(s *SQLiteStore) error {
				return s.DeleteResults(ctx, "a.pyi")
			},
			wantErr: "failed to delete results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.expect(mock)

			err := tt.call(store)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteStore_ScanRun(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "target", "status", "files", "failures", "started_at", "completed_at"}).
		AddRow("r1", "2.7.6/linux", "failed", 2, 1, fixedTime, nil)
	mock.ExpectQuery("SELECT (.+) FROM check_runs WHERE id").WithArgs("r1").WillReturnRows(rows)

	run, err := store.GetRun(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, 2, run.Files)
	assert.Nil(t, run.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
