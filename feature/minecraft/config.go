package minecraft

import "path/filepath"

// Config locates the server files.
type Config struct {
	// Folder is the Minecraft server directory.
	Folder string `mapstructure:"folder" default:""`
	// WhitelistFile is the whitelist file name inside Folder.
	WhitelistFile string `mapstructure:"whitelist_file" default:"whitelist.json"`
	// BanlistFile is the player ban list file name inside Folder.
	BanlistFile string `mapstructure:"banlist_file" default:"banned-players.json"`
}

// WhitelistPath returns the full path of the whitelist file.
func (c Config) WhitelistPath() string {
	return filepath.Join(c.Folder, c.WhitelistFile)
}

// BanlistPath returns the full path of the ban list file.
func (c Config) BanlistPath() string {
	return filepath.Join(c.Folder, c.BanlistFile)
}
