package stub

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/venue-admin/internal/booking"
	"github.com/nekogravitycat/venue-admin/internal/conference"
	"github.com/nekogravitycat/venue-admin/internal/lodging"
	"github.com/nekogravitycat/venue-admin/internal/upload"
)

// Config assembles the stub backend.
type Config struct {
	Store      *Storage
	DB         *Store
	Admin      *Admin
	JWT        *JWTManager
	PublicBase string // base URL prefixed to uploaded file paths
}

// Server is a self-contained venue backend implementing the surface the
// admin client consumes. It exists for offline development and tests.
type Server struct {
	db     *Store
	files  *Storage
	admin  *Admin
	jwt    *JWTManager
	public string
}

// NewRouter builds the gin engine with all stub routes registered.
// CORS is wide open: the stub only ever serves local dashboards.
func NewRouter(cfg Config) *gin.Engine {
	s := &Server{
		db:     cfg.DB,
		files:  cfg.Store,
		admin:  cfg.Admin,
		jwt:    cfg.JWT,
		public: strings.TrimRight(cfg.PublicBase, "/"),
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	authRequired := s.authRequired()

	r.POST("/auth/login", s.login)
	r.GET("/admin/me", authRequired, s.me)

	r.GET("/lodgings", s.listLodgings)
	r.GET("/lodgings/:id", s.getLodging)
	r.POST("/lodgings", authRequired, s.createLodging)
	r.PUT("/lodgings/:id", authRequired, s.updateLodging)
	r.DELETE("/lodgings/:id", authRequired, s.deleteLodging)

	r.GET("/conferences", s.listConferences)
	r.GET("/conferences/:id", s.getConference)
	r.POST("/conferences", authRequired, s.createConference)
	r.PUT("/conferences/:id", authRequired, s.updateConference)
	r.DELETE("/conferences/:id", authRequired, s.deleteConference)

	r.GET("/lodging-bookings", authRequired, s.listLodgingBookings)
	r.GET("/conference-bookings", authRequired, s.listConferenceBookings)

	r.POST("/upload", authRequired, s.uploadImage)
	r.GET("/files/*path", s.serveFile)

	return r
}

// authRequired validates the Authorization: Bearer <token> header.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		claims, err := s.jwt.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set("adminEmail", claims.Email)
		c.Next()
	}
}

func fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

// ---- auth ----

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}
	if !strings.EqualFold(req.Email, s.admin.Email) || !s.admin.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	token, err := s.jwt.GenerateAccessToken(s.admin.ID, s.admin.Email)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    s.admin.ID,
		"email": s.admin.Email,
		"name":  s.admin.Name,
	})
}

// ---- lodgings ----

func (s *Server) listLodgings(c *gin.Context) {
	out, err := s.db.ListLodgings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getLodging(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	l, err := s.db.GetLodging(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) createLodging(c *gin.Context) {
	var l lodging.Lodging
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid lodging payload"})
		return
	}
	if l.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}
	if err := s.db.CreateLodging(c.Request.Context(), &l); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (s *Server) updateLodging(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var l lodging.Lodging
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid lodging payload"})
		return
	}
	l.ID = id
	if err := s.db.UpdateLodging(c.Request.Context(), &l); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) deleteLodging(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.db.DeleteLodging(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- conferences ----

func (s *Server) listConferences(c *gin.Context) {
	out, err := s.db.ListConferences(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getConference(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := s.db.GetConference(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) createConference(c *gin.Context) {
	var r conference.Room
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid conference payload"})
		return
	}
	if r.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}
	if err := s.db.CreateConference(c.Request.Context(), &r); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) updateConference(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var r conference.Room
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid conference payload"})
		return
	}
	r.ID = id
	if err := s.db.UpdateConference(c.Request.Context(), &r); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) deleteConference(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.db.DeleteConference(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- bookings ----

func (s *Server) listLodgingBookings(c *gin.Context) {
	out, err := s.db.ListBookings(c.Request.Context(), booking.KindLodging)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listConferenceBookings(c *gin.Context) {
	out, err := s.db.ListBookings(c.Request.Context(), booking.KindConference)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---- files ----

func (s *Server) uploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "multipart field 'image' is required"})
		return
	}
	if header.Size > upload.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "image exceeds the 5 MB limit"})
		return
	}

	src, err := header.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer src.Close()

	// Sharded path keeps single directories small: ab/<uuid>.<ext>
	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("%s/%s%s", fileID[:2], fileID, ext)

	if err := s.files.Save(c.Request.Context(), path, src); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("%s/files/%s", s.public, path)})
}

func (s *Server) serveFile(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	file, err := s.files.Open(c.Request.Context(), path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	defer file.Close()
	http.ServeContent(c.Writer, c.Request, filepath.Base(path), time.Time{}, file)
}
