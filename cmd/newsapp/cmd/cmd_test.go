package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"news_review/internal/domain"
)

type CLITestSuite struct {
	suite.Suite
	configPath string
}

func (s *CLITestSuite) SetupTest() {
	dir := s.T().TempDir()
	s.configPath = filepath.Join(dir, "config.yaml")

	cfg := fmt.Sprintf(`
store:
  path: %s
remote:
  latency: 1ns
  fail_articles: [ART007]
log_level: error
`, filepath.Join(dir, "cli.db"))
	s.Require().NoError(os.WriteFile(s.configPath, []byte(cfg), 0o600))
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) exec(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), append([]string{"--config", s.configPath}, args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func (s *CLITestSuite) mustExec(args ...string) string {
	out, _, err := s.exec(args...)
	s.Require().NoError(err, args)
	return out
}

func (s *CLITestSuite) TestReviewerFlow() {
	out := s.mustExec("login", "Priya")
	s.Contains(out, "Logged in as Priya (Reviewer)")
	s.Contains(out, "Please sync the app.")

	out, errOut, err := s.exec("sync")
	s.Require().NoError(err)
	s.Contains(out, "fetched 20, inserted 19, updated 0, skipped 1, pushed 19")
	s.Contains(errOut, "90%")

	out = s.mustExec("articles")
	s.Contains(out, "Alice")
	s.Contains(out, "ART005")
	s.Contains(out, "ART010")
	s.NotContains(out, "ART011")
	s.NotContains(out, "ART007")
	s.Contains(out, "Showing 5 of 19 articles")
	s.Contains(out, "more articles available")

	out = s.mustExec("articles", "--all")
	s.Contains(out, "ART020")
	s.Contains(out, "Showing 19 of 19 articles")
	s.NotContains(out, "more articles available")

	out = s.mustExec("approve", "ART005", "ART006")
	s.Contains(out, "Approved 2 article(s)")

	out = s.mustExec("articles")
	s.Contains(out, "[x] ART005")
	s.Contains(out, "[ ] ART008")

	out = s.mustExec("sync", "--quiet")
	s.Contains(out, "inserted 0, updated 19")
}

func (s *CLITestSuite) TestAuthorFlow() {
	s.mustExec("login", "robert")
	s.mustExec("sync", "-q")

	out := s.mustExec("articles")
	s.Contains(out, "ART001  Perfume  (approvals: 2: John, Mark)")
	s.Contains(out, "ART004")
	s.NotContains(out, "ART005")

	_, _, err := s.exec("approve", "ART001")
	s.ErrorIs(err, errAuthorCannotApprove)

	out = s.mustExec("status")
	s.Contains(out, "robert (Author)")
	s.Contains(out, "Last pass:  success")
}

func (s *CLITestSuite) TestOffline() {
	s.mustExec("login", "Priya")

	_, _, err := s.exec("--offline", "sync")
	s.ErrorIs(err, domain.ErrNoConnection)

	out := s.mustExec("--offline", "status")
	s.Contains(out, "Network:    offline")
	s.Contains(out, "Last pass:  failure(fetch metadata list: no internet connection)")
	s.Contains(out, "Last sync:  never")

	_, _, err = s.exec("--offline", "approve", "ART001")
	s.ErrorIs(err, domain.ErrNoConnection)
}

func (s *CLITestSuite) TestApproveEmptyAndUnknown() {
	s.mustExec("login", "Priya")
	s.mustExec("sync", "-q")

	_, _, err := s.exec("approve")
	s.ErrorIs(err, domain.ErrEmptySelection)

	_, _, err = s.exec("approve", "ART999")
	s.ErrorIs(err, domain.ErrArticleNotFound)
}

func (s *CLITestSuite) TestLoginValidation() {
	_, _, err := s.exec("login", "   ")
	s.ErrorIs(err, domain.ErrEmptyUsername)

	_, _, err = s.exec("articles")
	s.ErrorIs(err, domain.ErrNotLoggedIn)
}

func (s *CLITestSuite) TestResetClearsDataAndSession() {
	s.mustExec("login", "Priya")
	s.mustExec("sync", "-q")

	out := s.mustExec("reset")
	s.Contains(out, "Local data cleared")

	_, _, err := s.exec("articles")
	s.ErrorIs(err, domain.ErrNotLoggedIn)

	out = s.mustExec("login", "Priya")
	s.Contains(out, "Please sync the app.")
}

func (s *CLITestSuite) TestLogout() {
	s.mustExec("login", "Priya")
	s.Contains(s.mustExec("logout"), "Logged out")
	s.Contains(s.mustExec("status"), "not logged in")
	s.Contains(s.mustExec("logout"), "Not logged in")
}
