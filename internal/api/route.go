package api

import (
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			profileGroup := userGroup.Group("")
			profileGroup.Use(middleware.AuthOptionalMiddleware())
			{
				profileGroup.GET("/:username/profile", group.UserHandler.GetProfile)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.POST("/avatar", group.UserHandler.UpdateAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.Use(middleware.AuthMiddleware())
			{
				userFollowGroup.GET("/followers", group.UserFollowHandler.GetUserFollowers)
				userFollowGroup.GET("/followers/count", group.UserFollowHandler.GetUserFollowersCount)
				userFollowGroup.GET("/followings", group.UserFollowHandler.GetUserFollowings)
				userFollowGroup.GET("/followings/count", group.UserFollowHandler.GetUserFollowingCount)
				userFollowGroup.GET("/isfollow/:following_id", group.UserFollowHandler.GetSomeoneIsFollowing)
				userFollowGroup.POST("/follow/:username", group.UserFollowHandler.Follow)
				userFollowGroup.DELETE("/follow/:username", group.UserFollowHandler.Unfollow)
			}
		}

		groupGroup := apiGroup.Group("/groups")
		{
			groupGroup.GET("", group.GroupHandler.ListGroups)
			groupGroup.GET("/:slug", group.GroupHandler.GetGroup)

			// 组管理需要登录 & 拥有 admin 角色
			adminGroup := groupGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.POST("", group.GroupHandler.CreateGroup)
				adminGroup.PUT("/:group_id", group.GroupHandler.UpdateGroup)
				adminGroup.DELETE("/:group_id", group.GroupHandler.DeleteGroup)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("/feed", group.PostHandler.GetLatestFeed)
			postGroup.GET("/feed/group/:slug", group.PostHandler.GetGroupFeed)
			postGroup.GET("/feed/author/:username", group.PostHandler.GetAuthorFeed)
			postGroup.GET("/detail/:post_id", group.PostHandler.GetPost)

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/feed/following", group.PostHandler.GetFollowingFeed)
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/post/:post_id", group.CommentHandler.GetComments)

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CommentHandler.CreateComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
			}
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			{
				mediaGroup.POST("/upload", group.MediaHandler.Upload)
			}
		}
	}

	return r
}
