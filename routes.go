package main

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type server struct {
	cfg      *Config
	db       *sql.DB
	users    *UserStore
	messages *MessageStore
	store    sessions.Store
	views    *views
	log      *logrus.Logger
}

func newServer(cfg *Config, db *sql.DB, log *logrus.Logger) (*server, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	return &server{
		cfg:      cfg,
		db:       db,
		users:    NewUserStore(db),
		messages: NewMessageStore(db),
		store:    newStore(cfg.SecretKey),
		views:    v,
		log:      log,
	}, nil
}

func (s *server) setupRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger(s.log), instrument, s.loadUser)

	r.HandleFunc("/", s.homepageHandler).Methods("GET")
	r.HandleFunc("/signup", s.signupHandler).Methods("GET", "POST")
	r.HandleFunc("/login", s.loginHandler).Methods("GET", "POST")
	r.HandleFunc("/logout", s.logoutHandler).Methods("GET")

	r.HandleFunc("/users", s.listUsersHandler).Methods("GET")
	r.Handle("/users/profile", s.requireLogin(s.editProfileHandler)).Methods("GET", "POST")
	r.Handle("/users/delete", s.requireLogin(s.deleteUserHandler)).Methods("POST")
	r.Handle("/users/follow/{id:[0-9]+}", s.requireLogin(s.followHandler)).Methods("POST")
	r.Handle("/users/stop-following/{id:[0-9]+}", s.requireLogin(s.stopFollowingHandler)).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}", s.showUserHandler).Methods("GET")
	r.Handle("/users/{id:[0-9]+}/following", s.requireLogin(s.showFollowingHandler)).Methods("GET")
	r.Handle("/users/{id:[0-9]+}/followers", s.requireLogin(s.showFollowersHandler)).Methods("GET")
	r.Handle("/users/{id:[0-9]+}/likes", s.requireLogin(s.showLikesHandler)).Methods("GET")

	r.Handle("/messages/new", s.requireLogin(s.newMessageHandler)).Methods("GET", "POST")
	r.HandleFunc("/messages/{id:[0-9]+}", s.showMessageHandler).Methods("GET")
	r.Handle("/messages/{id:[0-9]+}/delete", s.requireLogin(s.deleteMessageHandler)).Methods("POST")
	r.Handle("/messages/{id:[0-9]+}/like", s.requireLogin(s.likeMessageHandler)).Methods("POST")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))

	r.NotFoundHandler = s.loadUser(http.HandlerFunc(s.notFound))
	return r
}
