package config_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tauraamui/camplayer/pkg/config"
	"github.com/tauraamui/camplayer/pkg/configdef"
)

type fixedResolver struct {
	values configdef.Values
	err    error
}

func (r fixedResolver) Resolve() (configdef.Values, error) { return r.values, r.err }

var _ = Describe("Config", func() {
	var (
		tempDir    string
		configPath string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "camplayer-config")
		Expect(err).ToNot(HaveOccurred())
		configPath = filepath.Join(tempDir, "nested", "config.json")
		Expect(os.Setenv("CAMPLAYER_CONFIG", configPath)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Unsetenv("CAMPLAYER_CONFIG")).To(Succeed())
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	Describe("Default creator", func() {
		It("Should write a default config which resolves and validates", func() {
			Expect(config.DefaultCreator().Create()).To(Succeed())
			Expect(configPath).To(BeAnExistingFile())

			values, err := config.DefaultResolver().Resolve()
			Expect(err).ToNot(HaveOccurred())
			Expect(values.Backend).To(Equal("opencv"))
			Expect(values.Width).To(Equal(640))
			Expect(values.Height).To(Equal(480))
			Expect(values.ShowWindow()).To(BeTrue())
			flush, ok := values.Flush()
			Expect(ok).To(BeTrue())
			Expect(flush).To(Equal(5))
		})

		It("Should refuse to overwrite an existing config", func() {
			Expect(config.DefaultCreator().Create()).To(Succeed())
			err := config.DefaultCreator().Create()
			Expect(errors.Is(err, configdef.ErrConfigAlreadyExists)).To(BeTrue())
		})
	})

	Describe("Default destroyer", func() {
		It("Should remove the config file", func() {
			Expect(config.DefaultCreator().Create()).To(Succeed())
			Expect(config.DefaultDestroyer().Destroy()).To(Succeed())
			Expect(configPath).ToNot(BeAnExistingFile())
		})
	})

	Describe("Resolving with defaults", func() {
		It("Should treat a missing config file as empty", func() {
			values, err := config.ResolveOrDefault(config.DefaultResolver())
			Expect(err).ToNot(HaveOccurred())
			Expect(values).To(Equal(configdef.Values{}))
		})

		It("Should pass through other resolve errors", func() {
			_, err := config.ResolveOrDefault(fixedResolver{err: errors.New("broken")})
			Expect(err).To(MatchError("broken"))
		})

		It("Should pass through resolved values", func() {
			values, err := config.ResolveOrDefault(fixedResolver{values: configdef.Values{Backend: "mock"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(values.Backend).To(Equal("mock"))
		})
	})
})
