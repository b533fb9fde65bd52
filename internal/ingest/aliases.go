package ingest

// Stat providers disagree on column names; the alias table maps every spelling
// seen in the wild onto one canonical field. Headers are matched after
// lowercasing and trimming.
var columnAliases = map[string][]string{
	"player_id":       {"player_id", "playerid", "gsis_id", "id"},
	"player":          {"player", "player_name", "name", "player_display_name"},
	"season":          {"season", "year"},
	"week":            {"week", "game_week"},
	"position":        {"position", "pos", "position_group"},
	"pass_yards":      {"pass_yards", "passing_yards", "pass_yds"},
	"pass_tds":        {"pass_tds", "passing_tds", "pass_td"},
	"interceptions":   {"interceptions", "ints", "int", "passing_interceptions"},
	"pass_attempts":   {"pass_attempts", "attempts", "pass_att"},
	"rush_yards":      {"rush_yards", "rushing_yards", "rush_yds"},
	"rush_tds":        {"rush_tds", "rushing_tds", "rush_td"},
	"targets":         {"targets", "tgt"},
	"receptions":      {"receptions", "rec", "catches"},
	"rec_yards":       {"rec_yards", "receiving_yards", "rec_yds"},
	"rec_tds":         {"rec_tds", "receiving_tds", "rec_td"},
	"epa_per_play":    {"epa_per_play", "epa", "epa_play"},
	"cpoe":            {"cpoe"},
	"touches":         {"touches", "plays", "snaps"},
	"trading_volume":  {"trading_volume", "volume"},
	"sentiment_score": {"sentiment_score", "sentiment"},
	"weekly_change":   {"weekly_change", "week_change", "price_change"},
	"game_date":       {"game_date", "gameday", "date"},
	"is_gameday":      {"is_gameday", "has_game", "scheduled"},
	"is_primetime":    {"is_primetime", "primetime"},
	"is_playoff":      {"is_playoff", "playoff", "postseason"},
}
