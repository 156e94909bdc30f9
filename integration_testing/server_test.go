//go:build integration

package integration_testing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	"github.com/2beens/fitnessdash/internal"
	"github.com/2beens/fitnessdash/internal/analysis"
	"github.com/2beens/fitnessdash/internal/session"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/suite"
)

// IntegrationTestSuite runs the service against a real redis, started in docker.
type IntegrationTestSuite struct {
	suite.Suite

	dockerPool  *dockertest.Pool
	redisClient *redis.Client
	server      *internal.Server
	teardown    []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	rdb, redisPort, redisCleanup, err := redisSetup(s.dockerPool)
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup redis: %s", err)
	}
	s.redisClient = rdb
	s.teardown = append(s.teardown, redisCleanup)
	fmt.Println("redis setup successful")

	cfg := getTestConfig(redisPort)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}

	s.server.Serve()
	s.waitForServer()
	fmt.Println("server started")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	if s.server != nil {
		if err := s.server.GracefulShutdown(); err != nil {
			log.Printf("graceful shutdown: %s", err)
		}
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *IntegrationTestSuite) waitForServer() {
	s.Require().Eventually(func() bool {
		resp, err := http.Get(serverEndpoint + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)
}

func (s *IntegrationTestSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
	}
}

func (s *IntegrationTestSuite) getAnalysis(client *http.Client, query url.Values) analysisResult {
	target := serverEndpoint + "/api/analysis"
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	resp, err := client.Get(target)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var result analysisResult
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&result))
	return result
}

type analysisResult struct {
	Filter          analysis.FilterState `json:"filter"`
	TotalRecords    int                  `json:"totalRecords"`
	FilteredRecords int                  `json:"filteredRecords"`
}

func (s *IntegrationTestSuite) TestHealth() {
	resp, err := http.Get(serverEndpoint + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("I'm OK, thanks ;)", string(body))
}

func (s *IntegrationTestSuite) TestFilterStateStoredInRedis() {
	client := s.newClient()

	first := s.getAnalysis(client, nil)
	s.Equal(6, first.TotalRecords)
	s.Equal(3, first.FilteredRecords)

	query := url.Values{
		analysis.ParamApplied:    {"1"},
		analysis.ParamGender:     {"Female"},
		analysis.ParamWorkout:    {"Cardio", "HIIT", "Yoga", "Strength"},
		analysis.ParamExperience: {"Beginner", "Intermediate", "Advanced"},
		analysis.ParamAgeMin:     {"40"},
		analysis.ParamAgeMax:     {"60"},
	}
	filtered := s.getAnalysis(client, query)
	s.Equal(2, filtered.FilteredRecords)
	s.Equal([]string{"Female"}, filtered.Filter.Genders)

	// no query params: the filter comes back from the session
	restored := s.getAnalysis(client, nil)
	s.Equal(filtered.Filter, restored.Filter)
	s.Equal(2, restored.FilteredRecords)

	endpoint, err := url.Parse(serverEndpoint)
	s.Require().NoError(err)
	var sessionID string
	for _, c := range client.Jar.Cookies(endpoint) {
		if c.Name == session.CookieName {
			sessionID = c.Value
		}
	}
	s.Require().NotEmpty(sessionID)

	keys, err := s.redisClient.Keys(context.Background(), "fitdash-session||"+sessionID).Result()
	s.Require().NoError(err)
	s.Len(keys, 1)

	ttl, err := s.redisClient.TTL(context.Background(), keys[0]).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	// a fresh client gets its own session with the default filter
	other := s.getAnalysis(s.newClient(), nil)
	s.Equal(3, other.FilteredRecords)
}

func (s *IntegrationTestSuite) TestExportRateLimited() {
	target := serverEndpoint + "/bmi/export?name=Ana&age=30&weight=70&height=1.75"

	for i := 0; i < exportAllowedPerMin; i++ {
		resp, err := http.Get(target)
		s.Require().NoError(err)
		body, err := io.ReadAll(resp.Body)
		s.Require().NoError(err)
		s.Require().NoError(resp.Body.Close())

		s.Equal(http.StatusOK, resp.StatusCode)
		s.Contains(resp.Header.Get("Content-Disposition"), "user_health_data.csv")
		s.Contains(string(body), "Ana,30,1.75,70.0,22.86,Normal weight")
	}

	resp, err := http.Get(target)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("Retry-After"))
}
