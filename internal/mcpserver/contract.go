package mcpserver

import (
	"sync"

	"github.com/starford/contractviewer/internal/contract"
)

const formatGuideIntro = `# Contract Export Format

## Reading

Documents may wrap the contract body in ` + "`extracted_data`" + `, ` + "`contract_data`" + ` or
` + "`data`" + ` (checked in that order; the first object wins). A bare body works too.

- Parties and deposit may be a plain string or an object
  (` + "`{naam, adres, telefoon, email}`" + `, ` + "`{bedrag, locatie}`" + `).
- ` + "`indexatie`" + ` and ` + "`registratie`" + ` booleans read as Ja/Nee;
  ` + "`huisdieren`" + ` and ` + "`onderverhuur`" + ` booleans read as Toegestaan/Niet toegestaan.
- An empty ` + "`einddatum`" + ` reads as "Onbepaalde duur".
- Unknown ` + "`voorwaarden`" + ` keys are kept as "key: value" lines in
  ` + "`voorwaarden_extra`" + `.
- ` + "`summary`" + ` and the ` + "`confidence`" + ` block are read from the top level.

## Writing

Export always produces every key below, in this order. Values are strings.
The confidence block is never written.

` + "```json\n"

var (
	guideOnce sync.Once
	guide     string
)

// ExportFormatGuide describes how documents are read and shows the canonical
// exported shape of an empty record.
func ExportFormatGuide() string {
	guideOnce.Do(func() {
		out, err := contract.Export(contract.NewRecord()).MarshalIndent()
		if err != nil {
			out = []byte("{}\n")
		}
		guide = formatGuideIntro + string(out) + "```\n"
	})
	return guide
}
