package config_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tauraamui/camplayer/pkg/log"
)

func TestConfig(t *testing.T) {
	debugRef, infoRef := log.Debug, log.Info
	log.Debug = func(string, ...interface{}) {}
	log.Info = func(string, ...interface{}) {}
	// make this as defer, in case a panic is handled by Ginkgo
	defer func() { log.Debug, log.Info = debugRef, infoRef }()

	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}
