package helpers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const ProfileImageFolder = "profile-images"

// compressedTransform is the delivery transformation applied to the full-size
// upload to derive the thumbnail locator.
const compressedTransform = "c_limit,w_320,q_auto"

func ValidateToken(tokenStr string) (*CustomClaims, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}

	jwksURL := fmt.Sprintf("%s/rest/v1/auth/jwks", supabaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx: ctx,
	})
	if err != nil {
		// Fallback to unverified parsing if JWKS fails (for development)
		token, _, parseErr := jwt.NewParser().ParseUnverified(tokenStr, &CustomClaims{})
		if parseErr != nil {
			return nil, fmt.Errorf("JWKS validation failed and fallback parsing failed: %v", parseErr)
		}
		claims, ok := token.Claims.(*CustomClaims)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		return claims, nil
	}
	defer jwks.EndBackground()

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// CloudinaryImages resolves locally chosen images into durable locators.
type CloudinaryImages struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryImages(cld *cloudinary.Cloudinary) *CloudinaryImages {
	return &CloudinaryImages{cld: cld}
}

// UploadProfileImage uploads the image once and returns the full-size secure
// URL plus a compressed delivery variant of the same asset.
func (ci *CloudinaryImages) UploadProfileImage(ctx context.Context, imageRef string) (string, string, error) {
	if strings.TrimSpace(imageRef) == "" {
		return "", "", fmt.Errorf("image reference is empty")
	}

	uploadResult, err := ci.cld.Upload.Upload(ctx, imageRef, uploader.UploadParams{
		Folder: ProfileImageFolder,
		Tags:   []string{"langx-app"},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload profile image: %v", err)
	}

	full := uploadResult.SecureURL
	compressed := CompressedVariant(full)
	return full, compressed, nil
}

// CompressedVariant rewrites a Cloudinary delivery URL to its thumbnail
// transformation.
func CompressedVariant(secureURL string) string {
	return strings.Replace(secureURL, "/upload/", "/upload/"+compressedTransform+"/", 1)
}
