package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/fehres"
	"github.com/mohamedfathi540/RAG-001/internal/output"
	"github.com/mohamedfathi540/RAG-001/internal/session"
)

var prescriptionLimit int

var prescriptionCmd = &cobra.Command{
	Use:   "prescription",
	Short: "Analyze prescription images and chat about the medicines",
}

var prescriptionAnalyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Extract medicines from a prescription image",
	Long: `Extract medicines from a prescription image.

The image is OCR'd server-side and matched against the medicine corpus.
The result (including an inline preview of the image) is cached in the
session, so 'fehres prescription show' and 'fehres prescription chat'
work later without re-uploading the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrescriptionAnalyze,
}

var prescriptionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached analysis result",
	RunE:  runPrescriptionShow,
}

var prescriptionChatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask about the last analyzed prescription",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrescriptionChat,
}

func init() {
	prescriptionChatCmd.Flags().IntVarP(&prescriptionLimit, "limit", "l", 5, "Number of context chunks to retrieve")
	prescriptionCmd.AddCommand(prescriptionAnalyzeCmd)
	prescriptionCmd.AddCommand(prescriptionShowCmd)
	prescriptionCmd.AddCommand(prescriptionChatCmd)
}

// previewDataURL inlines an image file as a data URL so the cached result
// can be rendered later without the original file.
func previewDataURL(path string, data []byte) string {
	mime := "image/jpeg"
	switch filepath.Ext(path) {
	case ".png":
		mime = "image/png"
	case ".webp":
		mime = "image/webp"
	case ".gif":
		mime = "image/gif"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func runPrescriptionAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	output.Info("analyzing %s (OCR and matching take a while)", filepath.Base(path))
	resp, err := client.Prescription.Analyze(cmd.Context(), filepath.Base(path), f, int64(len(data)), nil)
	if err != nil {
		return err
	}

	result := &session.PrescriptionResult{
		SourceName:     filepath.Base(path),
		PreviewDataURL: previewDataURL(path, data),
		OCRText:        resp.OCRText,
		Medicines:      resp.Medicines,
		ProjectID:      resp.ProjectID,
		AnalyzedAt:     time.Now().UTC(),
	}
	if err := store.SetPrescription(result); err != nil {
		return err
	}

	printMedicines(result)
	return nil
}

// printMedicines renders the extracted medicines as cards.
func printMedicines(result *session.PrescriptionResult) {
	if len(result.Medicines) == 0 {
		output.Warning("no medicines recognized")
		return
	}
	for _, med := range result.Medicines {
		body := ""
		if med.ActiveIngredient != "" {
			body = "Active ingredient: " + med.ActiveIngredient
		}
		output.Card(med.Name, "", body)
	}
	fmt.Println(output.Subtle(fmt.Sprintf("analyzed %s at %s",
		result.SourceName, result.AnalyzedAt.Local().Format("2006-01-02 15:04"))))
}

func runPrescriptionShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	result := store.Prescription()
	if result == nil {
		output.Info("no prescription analyzed yet. Run 'fehres prescription analyze <image>'.")
		return nil
	}
	printMedicines(result)
	return nil
}

func runPrescriptionChat(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	result := store.Prescription()
	if result == nil {
		return fmt.Errorf("no prescription analyzed yet. Run 'fehres prescription analyze <image>' first")
	}

	client, err := newClient(store)
	if err != nil {
		return err
	}

	answer, err := client.Prescription.Chat(cmd.Context(), &fehres.PrescriptionChatRequest{
		Text:      args[0],
		Limit:     prescriptionLimit,
		ProjectID: result.ProjectID,
	})
	if err != nil {
		return err
	}

	output.Markdown(answer.Answer, string(store.Theme()))
	return nil
}
