// Package prompt renders the instruction text sent to the language model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hyperjump/juris/internal/models"
)

// GenericPrefix opens every prompt that has no attached document.
const GenericPrefix = "You are a professional AI legal assistant. Provide helpful, accurate legal information and guidance. " +
	"Always remind users that your responses are for informational purposes only and not a substitute for professional legal advice. " +
	"Be thorough, professional, and cite relevant legal principles when appropriate."

const (
	documentBegin = "--- DOCUMENT START ---"
	documentEnd   = "--- DOCUMENT END ---"

	defaultInstruction = "Please provide a comprehensive analysis of this document. Highlight any critical issues, " +
		"unusual or unfavorable clauses, and missing protections that require immediate attention."

	disclaimer = "Remind the user that this analysis is for informational purposes only and is not a substitute for professional legal advice."
)

// Checklists maps each document type to its ordered analysis points.
// Types without an entry use DefaultChecklist.
var Checklists = map[models.DocumentType][]string{
	models.DocumentContract: {
		"Parties involved and their obligations",
		"Key terms, payment conditions, and deliverables",
		"Termination clauses and notice periods",
		"Liability, indemnification, and limitation of damages",
		"Dispute resolution and governing law",
		"Potential risks and red flags",
		"Recommendations for negotiation or amendment",
	},
	models.DocumentLease: {
		"Rent amount, due dates, and payment terms",
		"Lease duration, renewal, and termination conditions",
		"Security deposit terms and conditions for return",
		"Maintenance and repair responsibilities",
		"Restrictions on use, subletting, and alterations",
		"Tenant and landlord rights under applicable law",
		"Clauses that may be unfavorable or unenforceable",
	},
	models.DocumentNDA: {
		"Scope of confidential information",
		"Duration of the confidentiality obligations",
		"Permitted disclosures and exclusions",
		"Consequences of breach and available remedies",
		"Jurisdiction and governing law",
		"Recommendations for strengthening the agreement",
	},
	models.DocumentPolicy: {
		"Purpose and scope of the policy",
		"Rights and obligations of affected parties",
		"Data collection, use, and retention practices",
		"Compliance with applicable regulations",
		"Ambiguous or overly broad provisions",
		"Recommendations for clarity and compliance",
	},
}

// DefaultChecklist applies to terms, legal-document and general documents.
var DefaultChecklist = []string{
	"Summary of the document's purpose",
	"Key provisions and obligations",
	"Rights and responsibilities of each party",
	"Potential legal issues or risks",
	"Compliance considerations",
	"Recommendations and next steps",
}

// ChecklistFor returns the analysis points for t.
func ChecklistFor(t models.DocumentType) []string {
	if items, ok := Checklists[t]; ok {
		return items
	}
	return DefaultChecklist
}

// Compose returns the prompt for question, with doc attached when non-nil.
func Compose(doc *models.UploadedFile, question string) string {
	if doc == nil {
		return GenericPrefix + "\n\nUser: " + question
	}

	md := doc.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional AI legal assistant. Analyze the following %s document named %q.\n\n",
		label(md.DocumentType), doc.Name)
	b.WriteString("Document details:\n")
	fmt.Fprintf(&b, "- Type: %s\n", md.DocumentType)
	fmt.Fprintf(&b, "- Word count: %d\n", md.WordCount)
	fmt.Fprintf(&b, "- File type: %s\n", strings.ToUpper(string(md.FileType)))
	if md.PageCount != nil {
		fmt.Fprintf(&b, "- Pages: %d\n", *md.PageCount)
	}

	b.WriteString("\n" + documentBegin + "\n")
	b.WriteString(doc.Content)
	b.WriteString("\n" + documentEnd + "\n\n")

	b.WriteString("Please cover the following points in your analysis:\n")
	for i, item := range ChecklistFor(md.DocumentType) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}

	if q := strings.TrimSpace(question); q != "" {
		b.WriteString("\nSPECIFIC QUESTION:\n")
		b.WriteString(q)
		b.WriteString("\n\nAnswer the specific question directly, using the document as context.\n")
	} else {
		b.WriteString("\n" + defaultInstruction + "\n")
	}
	b.WriteString("\n" + disclaimer)
	return b.String()
}

func label(t models.DocumentType) string {
	switch t {
	case models.DocumentNDA:
		return "NDA"
	case models.DocumentLegal:
		return "legal"
	case "":
		return string(models.DocumentGeneral)
	default:
		return string(t)
	}
}
