// Package config holds the authoritative tunable constants of a room's
// simulation. The teacher keeps these as a single untyped const block;
// here they are a struct so the Room Manager can run several
// independently-configured rooms (spec.md §4.9) instead of exactly one.
package config

import "time"

// Config bundles every tunable named in spec.md §6, "Configuration
// (authoritative constants)". Defaults() returns the spec's defaults.
type Config struct {
	// World
	WorldWidth  float64 // WORLD rectangle, width
	WorldHeight float64 // WORLD rectangle, height
	MapRadius   float64 // R_map, circular playfield radius
	SpawnMargin float64 // keep-away distance from the boundary on spawn

	// Tick / network rates
	TickRate       int // F_tick, simulation ticks/sec
	BroadcastRate  int // F_net, broadcast pushes/sec
	TickInterval   time.Duration
	BroadcastEvery time.Duration

	// Worm kinematics
	InitLength       float64 // INIT_LEN
	MaxLength        float64 // MAX_LEN
	BaseSpeed        float64 // BASE_SPEED, units/s
	BoostMult        float64 // BOOST_MULT
	MinBoostLength   float64 // MIN_BOOST_LENGTH
	SegRadius        float64 // SEG_RADIUS
	SegSpacing       float64 // SEG_SPACING
	PathRes          float64 // PATH_RES
	StepMax          float64 // STEP_MAX
	MaxTurnPerTick   float64 // MAX_TURN_PER_TICK at minimum length
	TurnScaleFactor  float64 // how much each extra segment slows turning
	PathHardCap      int     // hard cap on path point count (2000)
	BoostBurnPerMs   float64 // length units burned per ms of boost (1 / 300ms)
	SpawnGraceMS     int64   // SPAWN_GRACE_MS
	SelfCollision    bool    // feature flag, default off per spec Open Question
	SelfCollisionSeg int     // segments to skip from the neck when enabled

	// Food
	FoodTarget       int     // FOOD_TARGET
	FoodMinRadius    float64 // FOOD_MIN_RADIUS
	FoodMaxRadius    float64 // FOOD_MAX_RADIUS
	RespawnPerTick   int     // RESPAWN_PER_TICK
	MagnetRadius     float64 // R_magnet
	MagnetMinSpeed   float64 // v_min
	MagnetMaxSpeed   float64 // v_max
	PointsPerFood    int     // POINTS_PER_FOOD
	DeathFoodPerUnit int     // length units per loot item dropped on death
	FoodClusterShare float64 // fraction of spawns placed in clusters

	// Moving food (level 10, supplemented feature, see SPEC_FULL.md)
	MovingFoodSpawnInterval int     // ticks between moving-food spawn attempts
	MovingFoodMaxCount      int     // max moving food items live at once
	MovingFoodSpeed         float64 // units per tick
	MovingFoodDirMinTicks   int     // min ticks before a direction change
	MovingFoodDirMaxTicks   int     // max ticks before a direction change

	// Score
	PointsPerKill   int // POINTS_PER_KILL
	LeaderboardSize int // LEADERBOARD_SIZE

	// Input / transport
	InputBufferSize int           // INPUT_BUFFER_SIZE
	MaxInputRate    int           // MAX_INPUT_RATE, commands/sec
	TimestampSkew   time.Duration // T_skew
	PingTimeout     time.Duration // PING_TIMEOUT
	IPCooldown      time.Duration // per-IP reconnect cooldown
	MaxPlayers      int

	// Spatial index
	SpatialCellSize float64 // cell-hash bucket size for the worm/food grid

	// Broadcast
	ViewRadius     float64 // R_view
	ViewBuffer     float64 // R_buf
	ResyncInterval int     // broadcasts between full snapshots
	TeleportDist   float64 // TELEPORT_DIST
	MaxCached      int     // LRU bound on broadcaster's per-player cache
	DeadSpectatorFoodCap int // food items sent to a dead/spectating client

	// Tick health
	SlowTickThreshold  time.Duration // SLOW_TICK_MS
	MaxConsecutiveSlow int           // MAX_CONSEC_SLOW

	// Bots (supplemented, see SPEC_FULL.md)
	BotCount          int
	BotRespawnTicks   int
	BotBoundaryBuffer float64 // distance from R_map at which bots turn inward
	BotDangerRadius   float64 // body-segment lookahead radius for avoidance
	BotFleeRadius     float64 // radius within which a larger worm triggers flight
	BotChaseRadius    float64 // radius within which a smaller worm triggers a chase
	BotFoodSeekRadius float64 // radius bots search for food within
}

// Defaults returns the configuration described in spec.md §6.
func Defaults() Config {
	return Config{
		WorldWidth:  5000,
		WorldHeight: 5000,
		MapRadius:   2500,
		SpawnMargin: 150,

		TickRate:       60,
		BroadcastRate:  20,
		TickInterval:   time.Second / 60,
		BroadcastEvery: time.Second / 20,

		InitLength:       10,
		MaxLength:        500,
		BaseSpeed:        150,
		BoostMult:        2.0,
		MinBoostLength:   10,
		SegRadius:        8,
		SegSpacing:       15,
		PathRes:          2,
		StepMax:          4,
		MaxTurnPerTick:   0.15,
		TurnScaleFactor:  0.004,
		PathHardCap:      2000,
		BoostBurnPerMs:   1.0 / 300.0,
		SpawnGraceMS:     3000,
		SelfCollision:    false,
		SelfCollisionSeg: 5,

		FoodTarget:       1500,
		FoodMinRadius:    3,
		FoodMaxRadius:    8,
		RespawnPerTick:   20,
		MagnetRadius:     50,
		MagnetMinSpeed:   50,
		MagnetMaxSpeed:   600,
		PointsPerFood:    2,
		DeathFoodPerUnit: 20,
		FoodClusterShare: 0.7,

		MovingFoodSpawnInterval: 300,
		MovingFoodMaxCount:      3,
		MovingFoodSpeed:         4.0,
		MovingFoodDirMinTicks:   60,
		MovingFoodDirMaxTicks:   120,

		PointsPerKill:   100,
		LeaderboardSize: 10,

		InputBufferSize: 10,
		MaxInputRate:    60,
		TimestampSkew:   5000 * time.Millisecond,
		PingTimeout:     10 * time.Second,
		IPCooldown:      30 * time.Second,
		MaxPlayers:      500,

		SpatialCellSize: 500,

		ViewRadius:           1500,
		ViewBuffer:           200,
		ResyncInterval:       40,
		TeleportDist:         100,
		MaxCached:            200,
		DeadSpectatorFoodCap: 50,

		SlowTickThreshold:  40 * time.Millisecond,
		MaxConsecutiveSlow: 10,

		BotCount:          20,
		BotRespawnTicks:   100,
		BotBoundaryBuffer: 200,
		BotDangerRadius:   120,
		BotFleeRadius:     300,
		BotChaseRadius:    250,
		BotFoodSeekRadius: 400,
	}
}

// CenterX and CenterY return the world midpoint the circular playfield is
// centered on (spec.md §3, "World").
func (c Config) CenterX() float64 { return c.WorldWidth / 2 }
func (c Config) CenterY() float64 { return c.WorldHeight / 2 }
