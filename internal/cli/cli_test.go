package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/kubev2v/vsphere-inventory-generator/internal/cli"
	"github.com/kubev2v/vsphere-inventory-generator/internal/config"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
)

func execute(cmd *cobra.Command, args ...string) (string, error) {
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.TODO())
	return out.String(), err
}

var _ = Describe("cli", func() {
	var env *config.Config

	BeforeEach(func() {
		var err error
		env, err = config.Load()
		Expect(err).To(BeNil())
	})

	Context("generate", func() {
		It("writes csv and json files", func() {
			dir := filepath.Join(GinkgoT().TempDir(), "out")

			out, err := execute(cli.NewCmdGenerate(env), "--seed", "5", "--format", "csv,json", "--verify", "-o", dir)
			Expect(err).To(BeNil())
			Expect(out).To(ContainSubstring("scale=small seed=5"))
			Expect(out).To(ContainSubstring("Wrote"))

			Expect(filepath.Join(dir, "VirtualMachines.csv")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "inventory.json")).To(BeAnExistingFile())
		})

		It("keeps unrelated files in the output directory", func() {
			dir := GinkgoT().TempDir()
			unrelated := filepath.Join(dir, "README.md")
			Expect(os.WriteFile(unrelated, []byte("fixtures"), 0o600)).To(Succeed())

			_, err := execute(cli.NewCmdGenerate(env), "--format", "csv", "-o", dir)
			Expect(err).To(BeNil())
			Expect(unrelated).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "Regions.csv")).To(BeAnExistingFile())
		})

		It("writes the sqlite database into the output directory", func() {
			dir := filepath.Join(GinkgoT().TempDir(), "out")

			_, err := execute(cli.NewCmdGenerate(env), "--format", "db", "-o", dir)
			Expect(err).To(BeNil())
			Expect(filepath.Join(dir, env.Database.Name)).To(BeAnExistingFile())
		})

		It("writes generation metrics", func() {
			dir := GinkgoT().TempDir()
			metricsFile := filepath.Join(dir, "generator.prom")

			_, err := execute(cli.NewCmdGenerate(env), "--format", "csv", "-o", filepath.Join(dir, "out"), "--metrics-file", metricsFile)
			Expect(err).To(BeNil())

			data, err := os.ReadFile(metricsFile)
			Expect(err).To(BeNil())
			Expect(string(data)).To(ContainSubstring(`vsphere_generator_records_total{kind="VM"} 1000`))
			Expect(string(data)).To(ContainSubstring(`vsphere_generator_emitted_files_total{format="csv"}`))
		})

		It("prints the summary only on dry run", func() {
			dir := filepath.Join(GinkgoT().TempDir(), "out")

			out, err := execute(cli.NewCmdGenerate(env), "--dry-run", "--scale", "medium", "-o", dir)
			Expect(err).To(BeNil())
			Expect(out).To(ContainSubstring("scale=medium"))
			Expect(out).NotTo(ContainSubstring("Wrote"))

			_, err = os.Stat(dir)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("rejects an unknown format", func() {
			_, err := execute(cli.NewCmdGenerate(env), "--format", "parquet", "--dry-run")
			Expect(err).To(MatchError(ContainSubstring("output format must be one of")))
		})

		It("rejects publishing without a bucket", func() {
			_, err := execute(cli.NewCmdGenerate(env), "--publish", "--dry-run")
			Expect(err).To(MatchError(ContainSubstring("VSPHERE_GENERATOR_S3_BUCKET")))
		})

		It("rejects an undefined scale", func() {
			_, err := execute(cli.NewCmdGenerate(env), "--scale", "huge", "--dry-run")
			Expect(err).NotTo(BeNil())

			var invalid *profile.ErrInvalidConfiguration
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})
	})

	Context("validate", func() {
		It("accepts the default document", func() {
			out, err := execute(cli.NewCmdValidate())
			Expect(err).To(BeNil())
			Expect(out).To(ContainSubstring("Configuration is valid: scale small, 1000 VMs over 5 regions"))
		})

		It("accepts a scale override", func() {
			out, err := execute(cli.NewCmdValidate(), "--scale", "large")
			Expect(err).To(BeNil())
			Expect(out).To(ContainSubstring("20000 VMs"))
		})

		It("rejects a malformed document", func() {
			path := filepath.Join(GinkgoT().TempDir(), "broken.yaml")
			Expect(os.WriteFile(path, []byte("scale: small\nunknown_field: 1\n"), 0o600)).To(Succeed())

			_, err := execute(cli.NewCmdValidate(), "--config", path)
			Expect(err).NotTo(BeNil())
		})
	})

	Context("profile", func() {
		It("prints a document that validates", func() {
			out, err := execute(cli.NewCmdProfile())
			Expect(err).To(BeNil())

			cfg, err := profile.Parse([]byte(out))
			Expect(err).To(BeNil())
			Expect(cfg.Scale).To(Equal("small"))
		})
	})

	Context("verify and inspect", func() {
		var dir string

		BeforeEach(func() {
			dir = filepath.Join(GinkgoT().TempDir(), "out")
			_, err := execute(cli.NewCmdGenerate(env), "--format", "csv,xlsx", "-o", dir)
			Expect(err).To(BeNil())
		})

		It("verifies generated csv files", func() {
			out, err := execute(cli.NewCmdVerify(), "--input-dir", dir)
			Expect(err).To(BeNil())
			Expect(out).To(ContainSubstring("is consistent"))
		})

		It("reports a broken reference", func() {
			Expect(os.Remove(filepath.Join(dir, "ESXiHosts.csv"))).To(Succeed())

			_, err := execute(cli.NewCmdVerify(), "--input-dir", dir)
			Expect(err).NotTo(BeNil())
		})

		It("summarizes the generated workbook", func() {
			out, err := execute(cli.NewCmdInspect(), filepath.Join(dir, "inventory.xlsx"))
			Expect(err).To(BeNil())
			Expect(out).To(ContainSubstring("VMs:         1000"))
		})
	})

	Context("version", func() {
		It("prints the version", func() {
			out, err := execute(cli.NewCmdVersion())
			Expect(err).To(BeNil())
			Expect(out).To(HavePrefix("Generator Version: "))
		})
	})
})
