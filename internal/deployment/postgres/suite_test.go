package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDeploymentPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Deployment Postgres Suite")
}
