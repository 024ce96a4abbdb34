package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cardsage/cardsage/catalog"
)

func (s *Server) registerCatalogRoutes(api *gin.RouterGroup) {
	api.GET("/cards", s.listCards)
	api.GET("/cards/:id", s.getCard)
	api.GET("/banks", s.listBanks)
	api.GET("/banks/:id", s.getBank)
	api.GET("/categories", s.listCategories)
	api.GET("/categories/:id", s.getCategory)
	api.GET("/articles", s.listArticles)
	api.GET("/articles/:id", s.getArticle)

	admin := api.Group("", s.requireAdmin)
	{
		admin.POST("/cards", s.createCard)
		admin.PUT("/cards/:id", s.updateCard)
		admin.DELETE("/cards/:id", s.deleteCard)
		admin.POST("/banks", s.createBank)
		admin.PUT("/banks/:id", s.updateBank)
		admin.DELETE("/banks/:id", s.deleteBank)
		admin.POST("/categories", s.createCategory)
		admin.PUT("/categories/:id", s.updateCategory)
		admin.DELETE("/categories/:id", s.deleteCategory)
		admin.POST("/articles", s.createArticle)
		admin.PUT("/articles/:id", s.updateArticle)
		admin.DELETE("/articles/:id", s.deleteArticle)
	}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) renderStoreError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	s.logger.Error("Catalog store error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}

// --- cards ---

func (s *Server) listCards(c *gin.Context) {
	cards, err := s.store.ListCards(c.Request.Context())
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *Server) getCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := s.store.GetCard(c.Request.Context(), id)
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) createCard(c *gin.Context) {
	var card catalog.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := s.store.CreateCard(c.Request.Context(), &card); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *Server) updateCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var card catalog.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	card.ID = id
	if err := s.store.UpdateCard(c.Request.Context(), &card); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) deleteCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteCard(c.Request.Context(), id); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- banks ---

func (s *Server) listBanks(c *gin.Context) {
	banks, err := s.store.ListBanks(c.Request.Context())
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, banks)
}

func (s *Server) getBank(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bank, err := s.store.GetBank(c.Request.Context(), id)
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (s *Server) createBank(c *gin.Context) {
	var bank catalog.Bank
	if err := c.ShouldBindJSON(&bank); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := s.store.CreateBank(c.Request.Context(), &bank); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bank)
}

func (s *Server) updateBank(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var bank catalog.Bank
	if err := c.ShouldBindJSON(&bank); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	bank.ID = id
	if err := s.store.UpdateBank(c.Request.Context(), &bank); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (s *Server) deleteBank(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteBank(c.Request.Context(), id); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- categories ---

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := s.store.GetCategory(c.Request.Context(), id)
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) createCategory(c *gin.Context) {
	var category catalog.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := s.store.CreateCategory(c.Request.Context(), &category); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var category catalog.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	category.ID = id
	if err := s.store.UpdateCategory(c.Request.Context(), &category); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteCategory(c.Request.Context(), id); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- articles ---

func (s *Server) listArticles(c *gin.Context) {
	// Anonymous visitors only see published articles; the admin back-office
	// passes ?all=true to manage drafts.
	publishedOnly := c.Query("all") != "true"
	articles, err := s.store.ListArticles(c.Request.Context(), publishedOnly)
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) getArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	article, err := s.store.GetArticle(c.Request.Context(), id)
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) createArticle(c *gin.Context) {
	var article catalog.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := s.store.CreateArticle(c.Request.Context(), &article); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

func (s *Server) updateArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var article catalog.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	article.ID = id
	if err := s.store.UpdateArticle(c.Request.Context(), &article); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) deleteArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteArticle(c.Request.Context(), id); err != nil {
		s.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
