package bot

// OnRouteFinished is the playback engine's route-completed callback.
func (b *Bot) OnRouteFinished() {
	if b.ai.RouteState == RunningRoute {
		b.ai.RouteState = RouteFinished
		b.ai.TaskInitialized = false
	}
}

// OnRouteInterrupted is the playback engine's damage-interruption
// callback: someone knocked the bot off its path mid-route.
func (b *Bot) OnRouteInterrupted() {
	if b.ai.RouteState == RunningRoute {
		b.ai.RouteState = AbandonedRoute
		b.ai.TaskInitialized = false
	}
}

// determineRouteToRun picks a random route from the bot's configured
// list and marks it pending. The bot then travels to the route's first
// marker before playback starts.
func (b *Bot) determineRouteToRun() {
	if len(b.cfg.Routes) == 0 {
		return
	}
	name := b.cfg.Routes[b.rng.Intn(len(b.cfg.Routes))]
	route, ok := b.routes.RouteByName(name, b.pawn.Team())
	if !ok {
		return
	}
	b.ai.CurrentRoute = route
	if len(route.Markers) > 0 {
		b.ai.RouteStartLocation = route.Markers[0].Location
	}
	b.ai.RouteState = MovingToRouteStart
}

// startRouteFollow hands the pawn to the playback engine from the top
// of the selected route. Combat bots run live: damage interrupts the
// route for good and health is never restored.
func (b *Bot) startRouteFollow() {
	if b.ai.TaskInitialized || len(b.ai.CurrentRoute.Markers) < 1 {
		return
	}
	b.routes.StartPlayback(b.ai.CurrentRoute, PlaybackOptions{
		StartMarker:             0,
		ResumeAfterDamage:       false,
		StayAliveAfterEnd:       true,
		RestoreHealthOnTeleport: false,
	})
	b.ai.TaskInitialized = true
	b.ai.RouteState = RunningRoute
	b.ai.CurrentTask = TaskRunningRoute
}

// runRouteSimple is the route-runner role's whole existence: spawn
// somewhere along a configured route and play it back AFK, never
// exiting early. The spawn marker is offset per the bot's spawn config
// with a little randomness so drills don't feel scripted.
func (b *Bot) runRouteSimple() {
	if b.ai.TaskInitialized || len(b.cfg.Routes) < 1 {
		return
	}
	name := b.cfg.Routes[b.rng.Intn(len(b.cfg.Routes))]
	route, ok := b.routes.RouteByName(name, b.pawn.Team())
	if !ok {
		return
	}

	spawnMarker := 0
	switch b.cfg.SpawnOffset {
	case SpawnSecondsBeforeGrab:
		if route.GrabTime >= b.cfg.SpawnDelay {
			spawnTime := route.GrabTime - b.cfg.SpawnDelay
			spawnMarker = route.MarkerIndexAtTime(spawnTime)
			spawnMarker -= b.rng.Intn(9)
		}
		// Routes whose grab comes sooner than the delay start from the
		// top; there is nowhere earlier to spawn.
	case SpawnSecondsIntoRoute:
		spawnMarker = route.MarkerIndexAtTime(b.cfg.SpawnDelay)
		spawnMarker -= b.rng.Intn(9)
	}
	if spawnMarker < 0 {
		spawnMarker = 0
	}
	if route.Modulus > 0 {
		if max := len(route.Markers) / route.Modulus; spawnMarker > max {
			spawnMarker = max
		}
	}

	if b.cfg.Role == RoleRouteRunner {
		b.routes.StartPlayback(route, PlaybackOptions{
			StartMarker:             spawnMarker,
			ResumeAfterDamage:       !b.cfg.AlwaysFollowPath,
			StayAliveAfterEnd:       false,
			RestoreHealthOnTeleport: !b.cfg.TakesDamage,
		})
	}
	b.ai.TaskInitialized = true
}
