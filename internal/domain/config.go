package domain

type Config struct {
	// Seed loads the demo catalog at start up.
	Seed bool `yaml:"seed"`
	// VerifyReferencesOnReplace checks song lyricist/composer ids on PUT as well as POST.
	VerifyReferencesOnReplace bool `yaml:"verifyReferencesOnReplace"`
	// ScopeSongPatchByAlbum looks songs up by band and album on PATCH.
	ScopeSongPatchByAlbum bool `yaml:"scopeSongPatchByAlbum"`
}
