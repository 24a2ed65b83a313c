package main

import (
	"flag"

	"groupblog/crud"
	"groupblog/feed"
	"groupblog/http"
	"groupblog/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use the default dev setup.
	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithGroup(),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithFollow(),
	)
	must(err)

	// The feed composer sits on top of the crud services and owns the
	// global feed cache.
	feeds := feed.NewService(services.Post, services.Group, services.User, services.Follow)

	// The blob store for post images.
	images := storage.NewImageService()

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.CSRFAuthKey, services, feeds, images)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
