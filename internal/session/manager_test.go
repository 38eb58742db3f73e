package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"news_review/internal/config"
	"news_review/internal/domain"
	"news_review/internal/storage/sqlstore"
)

type ManagerTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *sqlx.DB
	articles *sqlstore.ArticleStore
	manager  *Manager
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := sqlstore.Open(s.ctx, config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(s.T().TempDir(), "session.db"),
	})
	s.Require().NoError(err)
	s.db = db

	s.articles = sqlstore.NewArticleStore(db)
	s.manager = NewManager(sqlstore.NewSessionStore(db), s.articles, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *ManagerTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) TestLogin_Reviewer() {
	result, err := s.manager.Login(s.ctx, "  Priya ")
	s.Require().NoError(err)

	s.Equal(domain.Session{Username: "Priya", Role: domain.RoleReviewer}, result.Session)
	s.True(result.NeedsSync)

	current, err := s.manager.Current(s.ctx)
	s.Require().NoError(err)
	s.Equal(result.Session, current)
}

func (s *ManagerTestSuite) TestLogin_AuthorIsCaseInsensitive() {
	for _, name := range []string{"robert", "Robert", "ROBERT"} {
		result, err := s.manager.Login(s.ctx, name)
		s.Require().NoError(err)
		s.Equal(domain.RoleAuthor, result.Session.Role, name)
	}
}

func (s *ManagerTestSuite) TestLogin_EmptyUsername() {
	_, err := s.manager.Login(s.ctx, "   ")
	s.ErrorIs(err, domain.ErrEmptyUsername)

	_, err = s.manager.Current(s.ctx)
	s.ErrorIs(err, domain.ErrNotLoggedIn)
}

func (s *ManagerTestSuite) TestLogin_NoSyncNeededWithArticles() {
	article := domain.NewArticle(
		domain.ArticleMetadata{ArticleID: "ART001", Author: "Robert"},
		domain.ArticleDetails{Name: "Perfume"},
	)
	s.Require().NoError(s.articles.UpsertMetadata(s.ctx, article.Metadata))
	s.Require().NoError(s.articles.UpsertDetails(s.ctx, article.Details))

	result, err := s.manager.Login(s.ctx, "Mark")
	s.Require().NoError(err)
	s.False(result.NeedsSync)
}

func (s *ManagerTestSuite) TestLogout() {
	_, err := s.manager.Login(s.ctx, "Mark")
	s.Require().NoError(err)

	loggedIn, err := s.manager.IsLoggedIn(s.ctx)
	s.Require().NoError(err)
	s.True(loggedIn)

	s.Require().NoError(s.manager.Logout(s.ctx))

	loggedIn, err = s.manager.IsLoggedIn(s.ctx)
	s.Require().NoError(err)
	s.False(loggedIn)
}

func TestRoleFor(t *testing.T) {
	assert.Equal(t, domain.RoleAuthor, RoleFor("Robert"))
	assert.Equal(t, domain.RoleReviewer, RoleFor("Roberta"))
	assert.Equal(t, domain.RoleReviewer, RoleFor(""))
}
