package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobswipe/internal/state"
	"github.com/jonathan/jobswipe/internal/storage"
	"github.com/jonathan/jobswipe/internal/types"
)

func loadUser(t *testing.T, dir string) *types.UserProfile {
	t.Helper()
	a, err := storage.NewFileAdapter(dir)
	require.NoError(t, err)
	user, err := storage.LoadUser(context.Background(), a)
	require.NoError(t, err)
	return user
}

func TestSwipeFlow(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, stateArgs(dir, "like")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved Senior Backend Engineer at Northwind Labs")

	out, err = execute(t, stateArgs(dir, "pass")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Passed on Mobile Developer")

	out, err = execute(t, stateArgs(dir, "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Job 3 of 6")
	assert.Contains(t, out, "Saved: 1  Applied: 0")

	out, err = execute(t, stateArgs(dir, "saved", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "SAVED JOBS (1)")
	assert.Contains(t, out, "[1] Senior Backend Engineer")

	out, err = execute(t, stateArgs(dir, "saved", "apply", "1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied to Senior Backend Engineer")

	out, err = execute(t, stateArgs(dir, "saved", "apply", "1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Already applied")

	out, err = execute(t, stateArgs(dir, "saved", "remove", "1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved jobs yet")

	_, err = execute(t, stateArgs(dir, "saved", "remove", "1")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not saved")

	out, err = execute(t, stateArgs(dir, "reset")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Job 1 of 6")
}

func TestPass_AdvancesAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	for _, title := range []string{"Senior Backend Engineer", "Mobile Developer", "Data Analyst"} {
		out, err := execute(t, stateArgs(dir, "pass")...)
		require.NoError(t, err)
		assert.Contains(t, out, "Passed on "+title)
	}

	// Read-only commands leave the stored cursor where it was
	for i := 0; i < 2; i++ {
		out, err := execute(t, stateArgs(dir, "status")...)
		require.NoError(t, err)
		assert.Contains(t, out, "Job 4 of 6")
	}

	a, err := storage.NewFileAdapter(dir)
	require.NoError(t, err)
	idx, err := storage.LoadCurrentIndex(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, 3, *idx)
}

func TestLike_AfterLastJob(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		_, err := execute(t, stateArgs(dir, "pass")...)
		require.NoError(t, err)
	}

	out, err := execute(t, stateArgs(dir, "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "You've seen all 6 jobs")

	_, err = execute(t, stateArgs(dir, "like")...)
	assert.ErrorIs(t, err, errNoCurrentJob)
	_, err = execute(t, stateArgs(dir, "pass")...)
	assert.ErrorIs(t, err, errNoCurrentJob)
}

func TestDebug(t *testing.T) {
	out, err := execute(t, "debug", "--store", "memory", "--catalog", "static")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Jobs:    6")
	assert.Contains(t, out, "0: Senior Backend Engineer at Northwind Labs")
}

func TestProfileCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, stateArgs(dir, "profile", "show")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No profile yet")

	_, err = execute(t, stateArgs(dir, "profile", "set", "--name", "Ada Lovelace", "--email", "ada@example.com", "--location", "Remote")...)
	require.NoError(t, err)

	// Unset flags keep their value
	out, err = execute(t, stateArgs(dir, "profile", "set", "--bio", "Analyst")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Name:     Ada Lovelace")
	assert.Contains(t, out, "Analyst")

	_, err = execute(t, stateArgs(dir, "profile", "set", "--email", "not-an-email")...)
	require.Error(t, err)
	assert.Equal(t, "ada@example.com", loadUser(t, dir).Email, "failed edit is not saved")

	_, err = execute(t, stateArgs(dir, "profile", "add-skill", "Go")...)
	require.NoError(t, err)
	user := loadUser(t, dir)
	require.Len(t, user.Skills, 1)
	assert.Equal(t, "Go", user.Skills[0].Name)
	assert.Equal(t, types.SkillIntermediate, user.Skills[0].Level)

	_, err = execute(t, stateArgs(dir, "profile", "remove-skill", "missing")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no skill with id "missing"`)

	_, err = execute(t, stateArgs(dir, "profile", "remove-skill", user.Skills[0].ID)...)
	require.NoError(t, err)
	assert.Empty(t, loadUser(t, dir).Skills)

	_, err = execute(t, stateArgs(dir, "profile", "add-experience",
		"--company", "Acme", "--position", "Engineer", "--duration", "2021 - Present",
		"--responsibility", "Built the API", "--responsibility", "Ran on-call, mostly", "--current")...)
	require.NoError(t, err)
	user = loadUser(t, dir)
	require.Len(t, user.WorkExperience, 1)
	assert.Equal(t, []string{"Built the API", "Ran on-call, mostly"}, user.WorkExperience[0].Responsibilities)
	assert.True(t, user.WorkExperience[0].Current)

	_, err = execute(t, stateArgs(dir, "profile", "add-experience", "--company", "Acme")...)
	require.Error(t, err)

	_, err = execute(t, stateArgs(dir, "profile", "add-education",
		"--institution", "MIT", "--degree", "BSc", "--field", "Mathematics", "--year", "2015")...)
	require.NoError(t, err)
	user = loadUser(t, dir)
	require.Len(t, user.Education, 1)
	assert.Equal(t, 2015, user.Education[0].GraduationYear)

	_, err = execute(t, stateArgs(dir, "profile", "add-education",
		"--institution", "MIT", "--degree", "BSc", "--field", "Mathematics", "--year", "15")...)
	require.Error(t, err)

	_, err = execute(t, stateArgs(dir, "profile", "remove-education", user.Education[0].ID)...)
	require.NoError(t, err)
	_, err = execute(t, stateArgs(dir, "profile", "remove-experience", user.WorkExperience[0].ID)...)
	require.NoError(t, err)

	user = loadUser(t, dir)
	assert.Empty(t, user.Education)
	assert.Empty(t, user.WorkExperience)
	assert.Equal(t, "Ada Lovelace", user.FullName)
}

func TestJobs(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, stateArgs(dir, "jobs", "--limit", "2")...)
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Senior Backend Engineer")
	assert.Contains(t, out, "[2] Mobile Developer")
	assert.NotContains(t, out, "[3]")

	_, err = execute(t, stateArgs(dir, "profile", "add-skill", "TypeScript")...)
	require.NoError(t, err)

	out, err = execute(t, stateArgs(dir, "jobs", "--ranked", "--limit", "1", "--remote")...)
	require.NoError(t, err)
	assert.Contains(t, out, "BEST MATCHES")
	assert.Contains(t, out, "#1")
	assert.NotContains(t, out, "#2")

	_, err = execute(t, stateArgs(dir, "jobs", "--ranked", "--type", "Freelance")...)
	assert.Error(t, err)
}

func TestImportResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{
			"personalInfo":{"fullName":"Grace Hopper","email":"grace@example.com"},
			"professionalSummary":"Compiler pioneer",
			"workExperience":[],"education":[],
			"skills":[{"name":"COBOL","level":"Expert"}],
			"certifications":[],"languages":[]},
			"confidence":0.95,"warnings":["Parsed using AI. Please verify for accuracy."]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4 test"), 0o600))

	out, err := execute(t, stateArgs(dir, "import-resume", file, "--server", srv.URL, "--dry-run")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Grace Hopper")
	assert.Nil(t, loadUser(t, dir), "dry run saves nothing")

	out, err = execute(t, stateArgs(dir, "import-resume", file, "--server", srv.URL, "--sections", "personal,skills")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 section(s)")

	user := loadUser(t, dir)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Grace Hopper", user.FullName)
	assert.Empty(t, user.Bio, "summary section was not selected")
	require.Len(t, user.Skills, 1)
	assert.Equal(t, "COBOL", user.Skills[0].Name)
}

func TestImportResume_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Server error while parsing resume."}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	pdf := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))
	txt := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain"), 0o600))

	_, err := execute(t, stateArgs(dir, "import-resume", pdf, "--server", srv.URL)...)
	require.Error(t, err)
	assert.Equal(t, "Server error while parsing resume.", err.Error())

	_, err = execute(t, stateArgs(dir, "import-resume", txt, "--server", srv.URL)...)
	require.Error(t, err)

	_, err = execute(t, stateArgs(dir, "import-resume", pdf, "--sections", "hobbies")...)
	require.Error(t, err)
}

func TestRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"a","title":"Platform Engineer","company":"Initech","type":"Contract"}]`))
	}))
	defer srv.Close()

	out, err := execute(t, "retry", "--store", "memory", "--catalog", "http", "--catalog-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Job 1 of 1")
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetry_PersistentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	for run := 1; run <= 3; run++ {
		_, err := execute(t, "retry", "--store", "memory", "--catalog", "http", "--catalog-url", srv.URL)
		require.Error(t, err)
		assert.Equal(t, state.MsgLoadFailed, err.Error())
		assert.Equal(t, int32(2*run), calls.Load(), "startup and the retry both reach the catalog")
	}
}

func TestRetry_KeepsCursor(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[
			{"id":"a","title":"Platform Engineer","company":"Initech","type":"Contract"},
			{"id":"b","title":"Site Reliability Engineer","company":"Initech","type":"Full-time"},
			{"id":"c","title":"Data Engineer","company":"Initech","type":"Full-time"}
		]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	args := func(cmd string) []string {
		return []string{cmd, "--store", "file", "--store-dsn", dir, "--catalog", "http", "--catalog-url", srv.URL}
	}

	for i := 0; i < 2; i++ {
		_, err := execute(t, args("pass")...)
		require.NoError(t, err)
	}

	out, err := execute(t, args("retry")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Job 3 of 3")
	assert.Equal(t, int32(4), calls.Load())
}

func TestConfigErrors(t *testing.T) {
	_, err := execute(t, "status", "--store", "etcd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")

	_, err = execute(t, "status", "--config", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = execute(t, "status", "--store", "memory", "--catalog", "http")
	if os.Getenv("JOBSWIPE_CATALOG_URL") == "" && os.Getenv("JOBSWIPE_SERVER_URL") == "" {
		require.Error(t, err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "jobswipe.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"store":"file","store_dsn":"`+filepath.ToSlash(dir)+`","catalog":"static"}`), 0o600))

	_, err := execute(t, "like", "--config", cfgPath)
	require.NoError(t, err)

	out, err := execute(t, stateArgs(dir, "saved", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "SAVED JOBS (1)")
}

func TestCatalogSeed_DryRun(t *testing.T) {
	out, err := execute(t, "catalog", "seed", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would seed 6 jobs")

	file := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"id":"a","title":"SRE","company":"Initech","type":"Full-time"},
		{"id":"b","title":"Writer","company":"Globex","type":"Contract"}]`), 0o600))
	out, err = execute(t, "catalog", "seed", "--file", file, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would seed 2 jobs")
}

func TestCatalogSeed_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id":"a","type":"Gig"}]`), 0o600))

	_, err := execute(t, "catalog", "seed", "--file", bad, "--dry-run")
	require.Error(t, err)

	_, err = execute(t, "catalog", "seed", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")

	t.Setenv("DATABASE_URL", "")
	_, err = execute(t, "catalog", "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}
