package dialogs

import "github.com/tfm-go/tfm/internal/uilayer"

var (
	_ uilayer.UILayer = (*InfoDialog)(nil)
	_ uilayer.UILayer = (*FileDiffView)(nil)
)
