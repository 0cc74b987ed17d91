package routes

import (
	"echo-me/config"
	"echo-me/internal/services"
)

// Stores are the persistence backends the services run on.
type Stores struct {
	Users         services.UserStore
	Posts         services.PostStore
	Comments      services.CommentStore
	Notifications services.NotificationStore
	Name          string
}

// Deps holds the services shared by every route group.
type Deps struct {
	Cfg    config.Config
	Stores Stores

	Notis    *services.NotificationService
	Graph    *services.GraphReader
	Follow   *services.FollowService
	Timeline *services.TimelineService
	Users    *services.UserService
	Posts    *services.PostService
	Comments *services.CommentService
	Search   *services.SearchService
}

func NewDeps(cfg config.Config, st Stores) *Deps {
	notis := services.NewNotificationService(st.Notifications, cfg.NotificationWindow)
	graph := services.NewGraphReader(st.Users)
	return &Deps{
		Cfg:      cfg,
		Stores:   st,
		Notis:    notis,
		Graph:    graph,
		Follow:   services.NewFollowService(st.Users, graph, notis),
		Timeline: services.NewTimelineService(st.Users, st.Posts, graph),
		Users:    services.NewUserService(st.Users, cfg.JWTSecret, cfg.JWTExpire),
		Posts:    services.NewPostService(st.Posts, st.Users, st.Comments, notis),
		Comments: services.NewCommentService(st.Comments, st.Posts, notis),
		Search:   services.NewSearchService(st.Users, st.Posts, cfg.SearchUserLimit, cfg.SearchPostLimit),
	}
}
