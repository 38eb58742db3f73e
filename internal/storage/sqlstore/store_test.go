package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"news_review/internal/config"
	"news_review/internal/domain"
)

type SQLiteStoreSuite struct {
	suite.Suite
	ctx context.Context
	db  *sqlx.DB

	articles  *ArticleStore
	syncState *SyncStateStore
	sessions  *SessionStore
	txManager *TransactionManager
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := Open(s.ctx, config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(s.T().TempDir(), "test.db"),
	})
	s.Require().NoError(err)
	s.db = db

	s.articles = NewArticleStore(db)
	s.syncState = NewSyncStateStore(db)
	s.sessions = NewSessionStore(db)
	s.txManager = NewTransactionManager(db)
}

func (s *SQLiteStoreSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func testTime(h int) time.Time {
	return time.Date(2024, 5, 27, h, 10, 0, 0, time.UTC)
}

func (s *SQLiteStoreSuite) storeArticle(id, author, name string, approvers ...string) {
	s.Require().NoError(s.articles.UpsertMetadata(s.ctx, domain.ArticleMetadata{ArticleID: id, Author: author}))
	s.Require().NoError(s.articles.UpsertDetails(s.ctx, domain.ArticleDetails{
		ArticleID:  id,
		Name:       name,
		Body:       name + " body",
		CreatedAt:  testTime(10),
		UpdatedAt:  testTime(11),
		ApprovedBy: domain.NewApprovers(approvers...),
	}))
}

func (s *SQLiteStoreSuite) TestUpsert_InsertAndRead() {
	s.storeArticle("ART001", "Robert", "Perfume", "Mark", "John")

	got, err := s.articles.GetByID(s.ctx, "ART001")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal("Perfume", got.Name)
	s.Equal("Perfume body", got.Body)
	s.Equal("Robert", got.Author)
	s.Equal(2, got.ApproveCount)
	s.Equal(domain.Approvers{"John", "Mark"}, got.ApprovedBy)
	s.True(testTime(10).Equal(got.CreatedAt))
	s.True(testTime(11).Equal(got.UpdatedAt))
}

func (s *SQLiteStoreSuite) TestUpsert_Idempotent() {
	s.storeArticle("ART001", "Robert", "Perfume", "Mark")
	s.storeArticle("ART001", "Robert", "Perfume", "Mark")

	all, err := s.articles.FetchAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
	s.Equal(1, all[0].ApproveCount)
}

func (s *SQLiteStoreSuite) TestUpsertDetails_ReplacesApproversAndCount() {
	s.storeArticle("ART001", "Robert", "Perfume", "Mark")
	s.storeArticle("ART001", "Robert", "Perfume v2", "Mark", "John", "Sarah")

	got, err := s.articles.GetByID(s.ctx, "ART001")
	s.Require().NoError(err)
	s.Equal("Perfume v2", got.Name)
	s.Equal(3, got.ApproveCount)
	s.Equal(domain.Approvers{"John", "Mark", "Sarah"}, got.ApprovedBy)
}

func (s *SQLiteStoreSuite) TestUpsertMetadata_IgnoresPassedCount() {
	s.storeArticle("ART001", "Robert", "Perfume", "Mark")

	err := s.articles.UpsertMetadata(s.ctx, domain.ArticleMetadata{ArticleID: "ART001", Author: "Robert", ApproveCount: 42})
	s.Require().NoError(err)

	got, err := s.articles.GetByID(s.ctx, "ART001")
	s.Require().NoError(err)
	s.Equal(1, got.ApproveCount)
}

func (s *SQLiteStoreSuite) TestDetailsBeforeMetadata() {
	err := s.articles.UpsertDetails(s.ctx, domain.ArticleDetails{
		ArticleID:  "ART009",
		Name:       "Orphan",
		CreatedAt:  testTime(1),
		UpdatedAt:  testTime(1),
		ApprovedBy: domain.NewApprovers("Ann"),
	})
	s.Require().NoError(err)

	got, err := s.articles.GetByID(s.ctx, "ART009")
	s.Require().NoError(err)
	s.Nil(got)

	has, err := s.articles.HasAnyArticles(s.ctx)
	s.Require().NoError(err)
	s.False(has)

	s.Require().NoError(s.articles.UpsertMetadata(s.ctx, domain.ArticleMetadata{ArticleID: "ART009", Author: "Eve"}))

	got, err = s.articles.GetByID(s.ctx, "ART009")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(1, got.ApproveCount)
}

func (s *SQLiteStoreSuite) TestFetchAll_OrderedByAuthor() {
	s.storeArticle("ART003", "Robert", "C")
	s.storeArticle("ART002", "Alice", "B")
	s.storeArticle("ART001", "Robert", "A")
	s.Require().NoError(s.articles.UpsertMetadata(s.ctx, domain.ArticleMetadata{ArticleID: "ART099", Author: "Aaron"}))

	all, err := s.articles.FetchAll(s.ctx)
	s.Require().NoError(err)

	ids := make([]string, 0, len(all))
	for _, a := range all {
		ids = append(ids, a.ArticleID)
	}
	s.Equal([]string{"ART002", "ART001", "ART003"}, ids)
}

func (s *SQLiteStoreSuite) TestFetchByAuthor() {
	s.storeArticle("ART003", "Robert", "C", "Ann")
	s.storeArticle("ART002", "Alice", "B", "Ben")
	s.storeArticle("ART001", "Robert", "A")

	got, err := s.articles.FetchByAuthor(s.ctx, "Robert")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("ART001", got[0].ArticleID)
	s.Equal("ART003", got[1].ArticleID)
	s.Equal(domain.Approvers{"Ann"}, got[1].ApprovedBy)
	s.Empty(got[0].ApprovedBy)

	none, err := s.articles.FetchByAuthor(s.ctx, "Nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *SQLiteStoreSuite) TestAddApproval() {
	s.storeArticle("ART002", "Robert", "Technology", "Sarah")

	added, err := s.articles.AddApproval(s.ctx, "ART002", "Priya")
	s.Require().NoError(err)
	s.True(added)

	added, err = s.articles.AddApproval(s.ctx, "ART002", "Priya")
	s.Require().NoError(err)
	s.False(added)

	got, err := s.articles.GetByID(s.ctx, "ART002")
	s.Require().NoError(err)
	s.Equal(2, got.ApproveCount)
	s.Equal(domain.Approvers{"Priya", "Sarah"}, got.ApprovedBy)
}

func (s *SQLiteStoreSuite) TestFetchAll_AuthorOrderIgnoresCase() {
	s.storeArticle("ART001", "bob", "A")
	s.storeArticle("ART002", "Carol", "B")
	s.storeArticle("ART003", "alice", "C")
	s.storeArticle("ART004", "Bob", "D")

	all, err := s.articles.FetchAll(s.ctx)
	s.Require().NoError(err)

	ids := make([]string, 0, len(all))
	for _, a := range all {
		ids = append(ids, a.ArticleID)
	}
	s.Equal([]string{"ART003", "ART004", "ART001", "ART002"}, ids)
}

func (s *SQLiteStoreSuite) TestFetchByAuthor_IgnoresCase() {
	s.storeArticle("ART001", "Robert", "Perfume", "Mark", "John")
	s.storeArticle("ART005", "Alice", "Music", "Ben")

	got, err := s.articles.FetchByAuthor(s.ctx, "robert")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("ART001", got[0].ArticleID)
	s.Equal("Robert", got[0].Author)
	s.Equal(domain.Approvers{"John", "Mark"}, got[0].ApprovedBy)

	got, err = s.articles.FetchByAuthor(s.ctx, "ROBERT")
	s.Require().NoError(err)
	s.Len(got, 1)
}

func (s *SQLiteStoreSuite) TestAddApproval_EmptyReviewer() {
	s.storeArticle("ART002", "Robert", "Technology", "Sarah")

	for _, reviewer := range []string{"", "   "} {
		added, err := s.articles.AddApproval(s.ctx, "ART002", reviewer)
		s.ErrorIs(err, domain.ErrEmptyUsername)
		s.False(added)
	}

	got, err := s.articles.GetByID(s.ctx, "ART002")
	s.Require().NoError(err)
	s.Equal(domain.Approvers{"Sarah"}, got.ApprovedBy)
	s.Equal(1, got.ApproveCount)
}

func (s *SQLiteStoreSuite) TestAddApproval_UnknownArticle() {
	_, err := s.articles.AddApproval(s.ctx, "NOPE", "Priya")
	s.ErrorIs(err, domain.ErrArticleNotFound)
}

func (s *SQLiteStoreSuite) TestHasAnyArticlesAndClearAll() {
	has, err := s.articles.HasAnyArticles(s.ctx)
	s.Require().NoError(err)
	s.False(has)

	s.storeArticle("ART001", "Robert", "Perfume", "Mark")

	has, err = s.articles.HasAnyArticles(s.ctx)
	s.Require().NoError(err)
	s.True(has)

	s.Require().NoError(s.articles.ClearAll(s.ctx))

	has, err = s.articles.HasAnyArticles(s.ctx)
	s.Require().NoError(err)
	s.False(has)

	var approvals int
	s.Require().NoError(s.db.GetContext(s.ctx, &approvals, "SELECT COUNT(*) FROM article_approvals"))
	s.Zero(approvals)
}

func (s *SQLiteStoreSuite) TestTransaction_RollbackOnError() {
	failure := errors.New("boom")

	err := s.txManager.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.articles.UpsertMetadata(ctx, domain.ArticleMetadata{ArticleID: "ART001", Author: "Robert"}); err != nil {
			return err
		}
		if err := s.articles.UpsertDetails(ctx, domain.ArticleDetails{ArticleID: "ART001", Name: "Perfume"}); err != nil {
			return err
		}
		return failure
	})
	s.ErrorIs(err, failure)

	got, err := s.articles.GetByID(s.ctx, "ART001")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *SQLiteStoreSuite) TestTransaction_Commit() {
	err := s.txManager.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.articles.UpsertMetadata(ctx, domain.ArticleMetadata{ArticleID: "ART001", Author: "Robert"}); err != nil {
			return err
		}
		return s.articles.UpsertDetails(ctx, domain.ArticleDetails{
			ArticleID:  "ART001",
			Name:       "Perfume",
			ApprovedBy: domain.NewApprovers("Mark"),
		})
	})
	s.Require().NoError(err)

	got, err := s.articles.GetByID(s.ctx, "ART001")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(1, got.ApproveCount)
	s.True(got.CreatedAt.IsZero())
}

func (s *SQLiteStoreSuite) TestSyncState() {
	state, err := s.syncState.Get(s.ctx, "simulated")
	s.Require().NoError(err)
	s.Equal("simulated", state.SourceID)
	s.True(state.LastSyncedAt.IsZero())
	s.Equal(domain.StatusIdle, state.LastStatus)

	state.LastSyncedAt = testTime(9)
	state.LastStatus = domain.StatusFailure
	state.LastError = "no internet connection"
	state.TotalSynced = 20
	s.Require().NoError(s.syncState.Update(s.ctx, state))

	got, err := s.syncState.Get(s.ctx, "simulated")
	s.Require().NoError(err)
	s.True(testTime(9).Equal(got.LastSyncedAt))
	s.Equal(domain.StatusFailure, got.LastStatus)
	s.Equal("no internet connection", got.LastError)
	s.Equal(int64(20), got.TotalSynced)
}

func (s *SQLiteStoreSuite) TestSessionStore() {
	_, ok, err := s.sessions.Get(s.ctx, "username")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.sessions.Set(s.ctx, "username", "Robert"))
	s.Require().NoError(s.sessions.Set(s.ctx, "username", "Priya"))

	value, ok, err := s.sessions.Get(s.ctx, "username")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("Priya", value)

	s.Require().NoError(s.sessions.Delete(s.ctx, "username", "userRole"))
	_, ok, err = s.sessions.Get(s.ctx, "username")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *SQLiteStoreSuite) TestStorageErrorsAreWrapped() {
	s.Require().NoError(s.db.Close())

	_, err := s.articles.FetchAll(s.ctx)
	s.ErrorIs(err, domain.ErrStorage)

	s.db = nil
}
