package assets

import "embed"

//go:embed config/*
var configFS embed.FS

func GetConfigAsset(name string) ([]byte, error) {
	return configFS.ReadFile("config/" + name)
}
