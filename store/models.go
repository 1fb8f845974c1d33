package store

// WallImageKey is the kv slot holding the selected wall photo.
const WallImageKey = "selectedWallImage"

type Hold struct {
	HoldName  string `json:"hold_name"`
	GroupName string `json:"group_name"`
	Order     int    `json:"order"`
}

type AppSettings struct {
	MaxScale     float64 `json:"max_scale"`
	TargetMaxDim int     `json:"target_max_dim"`
}

// DefaultAppSettings are written the first time settings are read.
var DefaultAppSettings = AppSettings{
	MaxScale:     5.0,
	TargetMaxDim: 2048,
}
