package categories

import "github.com/invopop/jsonschema"

// Icon is one of the fixed pictograms a category can carry. Tags that are not
// recognised decode to IconUnknown, which renders as DefaultIcon.
type Icon int

const (
	IconUnknown Icon = iota
	IconPotato
	IconPasta
	IconCasserole
	IconBeans
	IconSoup
	IconSalad
)

const DefaultIcon = IconCasserole

var iconTags = map[Icon]string{
	IconPotato:    "potato",
	IconPasta:     "pasta",
	IconCasserole: "casserole",
	IconBeans:     "beans",
	IconSoup:      "soup",
	IconSalad:     "salad",
}

var iconLabels = map[Icon]string{
	IconPotato:    "Kartoffel",
	IconPasta:     "Pasta",
	IconCasserole: "Auflauf",
	IconBeans:     "Bohnen",
	IconSoup:      "Suppe",
	IconSalad:     "Salat",
}

// Icons lists the known icons in picker order.
var Icons = []Icon{IconPotato, IconPasta, IconCasserole, IconBeans, IconSoup, IconSalad}

func ParseIcon(tag string) Icon {
	for icon, t := range iconTags {
		if t == tag {
			return icon
		}
	}
	return IconUnknown
}

func (i Icon) Known() bool {
	_, ok := iconTags[i]
	return ok
}

// OrDefault resolves the unknown variant to DefaultIcon.
func (i Icon) OrDefault() Icon {
	if i.Known() {
		return i
	}
	return DefaultIcon
}

// String returns the storage tag, empty for IconUnknown.
func (i Icon) String() string {
	return iconTags[i]
}

func (i Icon) Label() string {
	return iconLabels[i.OrDefault()]
}

func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Icon) UnmarshalText(b []byte) error {
	*i = ParseIcon(string(b))
	return nil
}

// JSONSchema lists the tags a client may send. Anything else is stored as
// DefaultIcon.
func (Icon) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, len(Icons))
	for _, icon := range Icons {
		enum = append(enum, icon.String())
	}
	return &jsonschema.Schema{
		Type:    "string",
		Enum:    enum,
		Default: DefaultIcon.String(),
	}
}
