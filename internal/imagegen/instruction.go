package imagegen

import "strings"

const helmetInstruction = `
Put the character from the profile picture inside the helmet image.
If there is no visible body in the profile picture, please create an appropriate body
that fits with the character and the helmet. Make it look natural and well-integrated.
The final result should show the character wearing or inside the helmet.
`

// BuildInstruction returns the prompt sent alongside the upload and the
// helmet. The first image is the subject, the second the helmet.
func BuildInstruction() string {
	return strings.Join(strings.Fields(helmetInstruction), " ")
}
