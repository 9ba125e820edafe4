package tandem_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"os/exec"
	"slices"
	"testing"
	"time"

	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup, account helpers and assertions shared by the tandem
 * end-to-end tests.
 */

const (
	testImageName = "tandem-test:latest"
	mongoImage    = "mongo:7"

	testPassword = "Secret123!"
)

// TestMain builds the service image once for the whole package.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Tandem Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Tandem Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/tandem/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Image might not exist
}

// baseEnv is the container environment every test starts from. Cookies are
// not marked Secure because the tests talk plain HTTP.
func baseEnv() map[string]string {
	return map[string]string{
		"ENV":                              "test",
		"LOG_LEVEL":                        "info",
		"LOG_FORMAT":                       "json",
		"TANDEM_ORIGIN":                    "http://tandem.test",
		"TANDEM_SECURE_COOKIES":            "false",
		"TANDEM_EXPOSE_VERIFICATION_LINKS": "true",
	}
}

// relaxedRateLimits lifts the strict and moderate profiles so tests can
// make many rapid requests.
func relaxedRateLimits() map[string]string {
	return map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

// startTandem runs the service image with env and returns its base URL.
func startTandem(t *testing.T, env map[string]string, opts ...testcontainers.CustomizeRequestOption) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/readyz").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	}
	for _, opt := range opts {
		require.NoError(t, opt(&req))
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// setupTandemContainer starts the service on its embedded SQLite store
// with relaxed rate limits.
func setupTandemContainer(t *testing.T) string {
	t.Helper()
	env := baseEnv()
	maps.Copy(env, relaxedRateLimits())
	return startTandem(t, env)
}

// setupTandemContainerWithDefaultRateLimits keeps the production limits,
// for tests that exercise rate limiting itself.
func setupTandemContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startTandem(t, baseEnv())
}

// setupTandemWithMongo starts MongoDB and the service on a shared network,
// with the service using the mongo store driver.
func setupTandemWithMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := nw.Remove(context.Background()); err != nil {
			t.Logf("failed to remove network: %v", err)
		}
	})

	mongoC, err := mongodb.Run(ctx, mongoImage, network.WithNetwork([]string{"mongo"}, nw))
	testcontainers.CleanupContainer(t, mongoC)
	require.NoError(t, err)

	env := baseEnv()
	maps.Copy(env, relaxedRateLimits())
	env["TANDEM_STORE"] = "mongo"
	env["TANDEM_MONGO_URI"] = "mongodb://mongo:27017"
	env["TANDEM_MONGO_DATABASE"] = "tandem_e2e"

	return startTandem(t, env, network.WithNetwork([]string{"tandem"}, nw))
}

// signup registers, verifies and logs in username with testPassword and
// returns a client holding the session cookie.
func signup(t *testing.T, baseURL, username string, fluent, learning []string) *tandemsdk.Client {
	t.Helper()
	ctx := t.Context()
	client := tandemsdk.NewClient(baseURL)

	reg, err := client.Register(ctx, tandemsdk.RegisterRequest{
		Username:          username,
		Email:             username + "@example.com",
		Password:          testPassword,
		ConfirmPassword:   testPassword,
		LanguagesFluent:   fluent,
		LanguagesLearning: learning,
	}, nil)
	require.NoError(t, err, "Registration should succeed")
	require.NotEmpty(t, reg.VerificationLink, "Verification link should be exposed in tests")

	_, err = client.VerifyEmail(ctx, tokenFromLink(t, reg.VerificationLink))
	require.NoError(t, err, "Verification should succeed")

	_, err = client.Login(ctx, username, testPassword)
	require.NoError(t, err, "Login should succeed")
	return client
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

// assertAPIError checks the status and error code of a failed call.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *tandemsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected an API error, got: %v", err)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code, "unexpected error code: %v", err)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *tandemsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// eventuallyHasBadges waits for the background badge worker to award ids.
func eventuallyHasBadges(t *testing.T, client *tandemsdk.Client, ids ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		me, err := client.Me(t.Context())
		if err != nil {
			return false
		}
		for _, id := range ids {
			if !slices.Contains(me.Badges, id) {
				return false
			}
		}
		return true
	}, 10*time.Second, 200*time.Millisecond, "badges %v were not awarded", ids)
}
