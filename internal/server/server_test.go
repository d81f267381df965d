package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/analyzer"
	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/rewrite"
	"github.com/jonathan/ats-engine/internal/server/ratelimit"
	"github.com/jonathan/ats-engine/internal/types"
)

// stubClient implements llm.Client with a canned JSON response.
type stubClient struct {
	json string
	err  error
}

func (s *stubClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", nil
}

func (s *stubClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.json, s.err
}

func (s *stubClient) GetModel(_ llm.ModelTier) string { return "stub-model" }

func (s *stubClient) Close() error { return nil }

const backendAnalysis = `{
	"role": "Backend Engineer",
	"seniority": "senior",
	"required_skills": ["Java", "Spring Boot"],
	"optional_skills": ["Kafka"],
	"tools": ["Docker"]
}`

const backendResume = `Java developer using Spring Boot for REST APIs.
Shipped Docker images through a CI pipeline.
Skills: Java, Spring Boot, Docker.`

// newTestServer builds a server with no database and the given collaborator.
// Rate limiting is disabled so tests never trip it.
func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()

	s := &Server{
		logger:      zap.NewNop(),
		validate:    validator.New(),
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
		jwtService:  NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}),
	}
	t.Cleanup(s.rateLimiter.Stop)

	if client != nil {
		s.client = client
		s.analyzer = analyzer.New(client)
		s.rewriter = rewrite.New(client)
		s.batch = batch.New(client, 2)
	}
	return s
}

// authedRequest builds a request carrying a valid bearer token.
func authedRequest(t *testing.T, s *Server, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)

	token, err := s.jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestEngineEndpointsRequireAuth(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.routes()

	paths := []string{"/v1/analyze", "/v1/score", "/v1/gaps", "/v1/ground", "/v1/rewrite", "/v1/batch"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", path, bytes.NewBufferString("{}")))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, &stubClient{json: backendAnalysis})

	req := authedRequest(t, s, "POST", "/v1/analyze", map[string]string{
		"jd_text": "Senior Backend Engineer. Java and Spring Boot required.",
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var jd types.JobDescription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jd))
	assert.Equal(t, "Backend Engineer", jd.Role)
	assert.Equal(t, []string{"java", "spring boot"}, jd.Keywords.Required)
}

func TestAnalyze_CollaboratorDown(t *testing.T) {
	s := newTestServer(t, &stubClient{err: fmt.Errorf("quota exhausted")})

	req := authedRequest(t, s, "POST", "/v1/analyze", map[string]string{
		"jd_text": "Senior Backend Engineer. Java and Spring Boot required.",
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestScore_WithKeywords(t *testing.T) {
	// No collaborator needed: keywords come pre-extracted.
	s := newTestServer(t, nil)

	req := authedRequest(t, s, "POST", "/v1/score", scoreRequest{
		ResumeText: backendResume,
		Role:       "Backend Engineer",
		Keywords: &types.KeywordSet{
			Required: []string{"java", "spring boot"},
			Optional: []string{"kafka"},
			Tools:    []string{"docker"},
		},
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Greater(t, report.Score.Score, 50.0)
	assert.Contains(t, report.Gap.Missing.Optional, "kafka")
	assert.NotEmpty(t, report.FitClass)
}

func TestScore_MissingJD(t *testing.T) {
	s := newTestServer(t, nil)

	req := authedRequest(t, s, "POST", "/v1/score", scoreRequest{ResumeText: backendResume})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGaps(t *testing.T) {
	s := newTestServer(t, nil)

	req := authedRequest(t, s, "POST", "/v1/gaps", gapsRequest{
		ResumeText: backendResume,
		Keywords: types.KeywordSet{
			Required: []string{"java", "kubernetes"},
			Tools:    []string{"docker"},
		},
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report types.SkillGapReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Contains(t, report.Present.Required, "java")
	assert.Contains(t, report.Missing.Required, "kubernetes")
}

func TestGround(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.routes()

	cases := []struct {
		name      string
		candidate string
		grounded  bool
	}{
		{"verbatim fragment", "Shipped Docker images", true},
		{"new technology", "Deployed Kubernetes clusters at scale", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authedRequest(t, s, "POST", "/v1/ground", groundRequest{
				Candidate: tc.candidate,
				Source:    backendResume,
			})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var verdict types.GroundingVerdict
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
			assert.Equal(t, tc.grounded, verdict.Grounded)
			assert.NotEmpty(t, verdict.Reason)
		})
	}
}

func TestRewrite_FallsBackOnGarbage(t *testing.T) {
	s := newTestServer(t, &stubClient{json: "not json at all"})

	req := authedRequest(t, s, "POST", "/v1/rewrite", rewrite.Request{
		Summary:    "Java developer using Spring Boot.",
		ResumeText: backendResume,
		Keywords:   types.KeywordSet{Required: []string{"java"}},
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result rewrite.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.UsedFallback)
	assert.Equal(t, "Java developer using Spring Boot.", result.Summary)
}

func TestBatch(t *testing.T) {
	s := newTestServer(t, &stubClient{json: backendAnalysis})

	req := authedRequest(t, s, "POST", "/v1/batch", batch.Request{
		ResumeText: backendResume,
		Postings: []types.JobPosting{
			{JDID: "jd-1", Title: "Backend Engineer", Text: "Java and Spring Boot required."},
			{JDID: "jd-2", Title: "Empty", Text: "   "},
		},
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result types.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Summary.TotalJDs)
	assert.Equal(t, 1, result.Summary.Processed)
	assert.Equal(t, 1, result.Summary.Failed)
}

func TestRunEndpoints_NoPersistence(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.routes()

	req := authedRequest(t, s, "GET", "/v1/runs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = authedRequest(t, s, "GET", "/v1/batches", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestScore_CollaboratorRequiredForJDText(t *testing.T) {
	s := newTestServer(t, nil)

	req := authedRequest(t, s, "POST", "/v1/score", scoreRequest{
		ResumeText: backendResume,
		JDText:     "Senior Backend Engineer. Java required.",
	})
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
