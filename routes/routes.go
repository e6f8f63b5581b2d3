package routes

import (
	"github.com/gin-gonic/gin"

	"minilibrary_go/config"
	"minilibrary_go/controllers"
	"minilibrary_go/middleware"
	"minilibrary_go/services"
)

// SetupRoutes 注册所有API路由
func SetupRoutes(r *gin.Engine, cfg *config.Config, mailer services.Mailer) {
	// 全局中间件
	r.Use(middleware.CORS())
	r.Use(middleware.Logger())

	// 控制器实例
	authController := controllers.NewAuthController(
		services.NewAuthService(config.GetJWTService(), mailer))
	bookController := controllers.NewBookController(
		services.NewBookService(), cfg.PenaltyRate)
	reviewController := controllers.NewReviewController(services.NewReviewService())
	wishlistController := controllers.NewWishlistController(services.NewWishlistService())
	analyticsController := controllers.NewAnalyticsController(services.NewAnalyticsService())

	// 认证路由（无需登录）
	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// 书籍路由
	books := r.Group("/books")
	books.Use(middleware.AuthMiddleware())
	{
		books.GET("/fetch", bookController.FetchBooks)
		books.GET("/search", bookController.SearchBooks)
		books.GET("/borrow/:id", bookController.BorrowBook)
		books.GET("/borrow/:id/:days", bookController.BorrowBook)
		books.GET("/return/:id", bookController.ReturnBook)

		// 管理员专属
		admin := books.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/add", bookController.AddBook)
			admin.PUT("/update/:id", bookController.UpdateBook)
			admin.DELETE("/delete/:id", bookController.DeleteBook)
		}
	}

	// 书评路由
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.GET("/fetch/:id", reviewController.GetBookReviews)
		reviews.POST("/add/:id", reviewController.AddReview)
	}

	// 心愿单路由
	wishlist := r.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware())
	{
		wishlist.POST("/add", wishlistController.AddWishlist)
		wishlist.GET("/fetch/:id", wishlistController.FetchWishlist)
		wishlist.DELETE("/delete/:id", wishlistController.DeleteWishlistItem)
	}

	// 统计分析路由（仅管理员）
	analytics := r.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		analytics.GET("/most-borrowed-books", analyticsController.MostBorrowedBooks)
		analytics.GET("/active-users", analyticsController.ActiveUsers)
		analytics.GET("/genre-popularity", analyticsController.GenrePopularity)
	}
}
