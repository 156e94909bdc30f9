//go:build integration

package integration_testing

import (
	"context"
	"fmt"
	"net"

	"github.com/2beens/fitnessdash/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort = 9000
	serverHost = "127.0.0.1"

	exportAllowedPerMin = 2
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

func getTestConfig(redisPort string) *config.Config {
	return &config.Config{
		Environment:           "development",
		Host:                  serverHost,
		Port:                  serverPort,
		DatasetPath:           "../internal/dataset/testdata/workouts.csv",
		LogLevel:              "debug",
		LogToStdout:           true,
		PrometheusMetricsHost: serverHost,
		PrometheusMetricsPort: "2113",
		SessionTTLSeconds:     config.DefaultSessionTTLSeconds,
		ViewCacheSizeMB:       config.DefaultViewCacheSizeMB,
		RedisEnabled:          true,
		RedisHost:             serverHost,
		RedisPort:             redisPort,
		ExportRateLimitPerMin: exportAllowedPerMin,
	}
}

// redisSetup starts a redis container and waits until it answers a ping.
func redisSetup(pool *dockertest.Pool) (*redis.Client, string, func(), error) {
	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "fitdash-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, "", nil, fmt.Errorf("run redis: %s", err)
	}

	redisPort := redisResource.GetPort("6379/tcp")
	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(serverHost, redisPort),
	})

	if err := pool.Retry(func() error {
		return rdb.Ping(context.Background()).Err()
	}); err != nil {
		_ = rdb.Close()
		_ = redisResource.Close()
		return nil, "", nil, fmt.Errorf("ping redis: %s", err)
	}

	return rdb, redisPort, func() {
		_ = rdb.Close()
		_ = redisResource.Close()
	}, nil
}
