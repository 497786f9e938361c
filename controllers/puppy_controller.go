package controllers

import (
	"net/http"

	"pupcare/services"

	"github.com/gin-gonic/gin"
)

type PuppyController struct {
	Puppies *services.PuppyService
}

func NewPuppyController(puppies *services.PuppyService) *PuppyController {
	return &PuppyController{Puppies: puppies}
}

// GET /puppies
func (pc *PuppyController) List(c *gin.Context) {
	out, err := pc.Puppies.ListForUser(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /puppies
func (pc *PuppyController) Create(c *gin.Context) {
	var in services.PuppyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := pc.Puppies.Create(c.Request.Context(), c.GetUint("userID"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /puppies/:id
func (pc *PuppyController) Get(c *gin.Context) {
	p, err := pc.Puppies.Get(c.Request.Context(), puppyIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"puppy": p, "role": c.MustGet("role")})
}

// PUT /puppies/:id
func (pc *PuppyController) Update(c *gin.Context) {
	var in services.PuppyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := pc.Puppies.Update(c.Request.Context(), puppyIDFromCtx(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /puppies/:id
func (pc *PuppyController) Delete(c *gin.Context) {
	if err := pc.Puppies.Delete(c.Request.Context(), puppyIDFromCtx(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "puppy deleted"})
}

type photoInput struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /puppies/:id/photo
func (pc *PuppyController) UploadPhoto(c *gin.Context) {
	var in photoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is required"})
		return
	}
	p, err := pc.Puppies.SetPhoto(c.Request.Context(), puppyIDFromCtx(c), in.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_url": p.PhotoURL})
}

// ---------- weights ----------

type weightInput struct {
	Date   string  `json:"date" binding:"required"`
	Weight float64 `json:"weight" binding:"required"`
}

func (pc *PuppyController) ListWeights(c *gin.Context) {
	out, err := pc.Puppies.ListWeights(c.Request.Context(), puppyIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (pc *PuppyController) AddWeight(c *gin.Context) {
	var in weightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := pc.Puppies.AddWeight(c.Request.Context(), puppyIDFromCtx(c), in.Date, in.Weight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (pc *PuppyController) DeleteWeight(c *gin.Context) {
	wid, ok := uintParam(c, "wid")
	if !ok {
		return
	}
	if err := pc.Puppies.DeleteWeight(c.Request.Context(), puppyIDFromCtx(c), wid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "weight entry deleted"})
}
