package handlers

import (
	"net/http"

	"food-delivery-service/internal/api/dto"
	"food-delivery-service/internal/ports"
)

// RestaurantHandler exposes read-only restaurant retrieval endpoints.
type RestaurantHandler struct {
	Repo ports.RestaurantRepository
}

func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	restaurants, err := h.Repo.ListRestaurants(r.Context())
	if err != nil {
		logFor(r).WithError(err).Error("list restaurants failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRestaurantsResponse{
		Restaurants: make([]dto.RestaurantDTO, 0, len(restaurants)),
	}
	for _, rest := range restaurants {
		res.Restaurants = append(res.Restaurants, dto.FromRestaurant(rest))
	}

	writeJSON(w, r, http.StatusOK, res)
}
