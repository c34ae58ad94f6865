package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var french = map[string]string{
	"No token provided": "Aucun jeton fourni",
	"Invalid token":     "Jeton invalide",
	"you are not authorised for this operation": "vous n'êtes pas autorisé pour cette opération",
	"Incorrect email or password":               "Email ou mot de passe incorrect",
	"Email already exists":                      "L'email existe déjà",
	"The user doesn't exist":                    "L'utilisateur n'existe pas",
	"user not found on reset":                   "utilisateur introuvable pour la réinitialisation",
	"The user is already a %s":                  "L'utilisateur est déjà %s",
	"Invalid role":                              "Rôle invalide",
	"One or both user ID's do not exist":        "Un ou les deux identifiants d'utilisateur n'existent pas",
	"User does not exist or they are not a manager or they are both managers": "L'utilisateur n'existe pas ou n'est pas un manager ou ils sont tous deux managers",
	"You must have a manager assigned before requesting a trip":               "Vous devez avoir un manager assigné avant de demander un voyage",
	"Please verify your email first":                                          "Veuillez d'abord vérifier votre email",
	"invalid request payload":                                                 "requête invalide",
	"Choose an a picture first":                                               "Choisissez d'abord une image",
	"Only image files are allowed":                                            "Seules les images sont autorisées",
	"Trip request not found":                                                  "Demande de voyage introuvable",
	"Only pending trip requests can be changed":                               "Seules les demandes en attente peuvent être modifiées",
	"Invalid trip request: %s":                                                "Demande de voyage invalide : %s",
	"Facility not found":                                                      "Établissement introuvable",
	"Room not found":                                                          "Chambre introuvable",
	"Room is not available":                                                   "La chambre n'est pas disponible",
	"You already liked this facility":                                         "Vous aimez déjà cet établissement",
	"You already unliked this facility":                                       "Vous n'aimez déjà pas cet établissement",
	"Only approved trip requests can be confirmed":                            "Seules les demandes approuvées peuvent être confirmées",
	"Rating must be a whole number from 1 to 5":                               "La note doit être un nombre entier de 1 à 5",
	"Feedback cannot be empty":                                                "L'avis ne peut pas être vide",
	"Invalid booking: %s":                                                     "Réservation invalide : %s",
	"server error":                                                            "erreur du serveur",
	"The request timed out, please try again":                                 "La requête a expiré, veuillez réessayer",
	"Unsupported login provider":                                              "Fournisseur de connexion non pris en charge",
	"External login failed":                                                   "La connexion externe a échoué",
	"Email verification failed":                                               "La vérification de l'email a échoué",
	"User is successfully registered":                                         "L'utilisateur est inscrit avec succès",
	"User is successfully registered, but the verification email could not be sent": "L'utilisateur est inscrit, mais l'email de vérification n'a pas pu être envoyé",
	"User is successfully logged in":                                                "L'utilisateur est connecté avec succès",
	"User is successfully logged out":                                               "L'utilisateur est déconnecté avec succès",
	"Email verified successfully":                                                   "Email vérifié avec succès",
	"check your email to reset your password":                                       "consultez votre email pour réinitialiser votre mot de passe",
	"password reset successfully":                                                   "mot de passe réinitialisé avec succès",
	"User roles updated successfully":                                               "Rôles de l'utilisateur mis à jour avec succès",
	"Manager assigned successfully.":                                                "Manager assigné avec succès.",
	"Profile updated successfully":                                                  "Profil mis à jour avec succès",
	"User profile details":                                                          "Détails du profil utilisateur",
	"Your image has been uploded successfully":                                      "Votre image a été téléchargée avec succès",
	"Success":                            "Succès",
	"Trip request created successfully":  "Demande de voyage créée avec succès",
	"Trip request updated successfully":  "Demande de voyage mise à jour avec succès",
	"Trip request approved":              "Demande de voyage approuvée",
	"Trip request rejected":              "Demande de voyage rejetée",
	"Trip request confirmed":             "Demande de voyage confirmée",
	"Facility rated successfully":        "Établissement noté avec succès",
	"Thank you for your feedback":        "Merci pour votre avis",
	"Facility created successfully":      "Établissement créé avec succès",
	"Room created successfully":          "Chambre créée avec succès",
	"Facility liked":                     "Établissement aimé",
	"Facility unliked":                   "Établissement non aimé",
	"Room booked successfully":           "Chambre réservée avec succès",
	"Verify your Barefoot Nomad account": "Vérifiez votre compte Barefoot Nomad",
	"Reset your Barefoot Nomad password": "Réinitialisez votre mot de passe Barefoot Nomad",
	"Thank you for joining Barefoot Nomad. Click the button below to verify your email.": "Merci d'avoir rejoint Barefoot Nomad. Cliquez sur le bouton ci-dessous pour vérifier votre email.",
	"You requested a password reset. Click the button below to choose a new password.":   "Vous avez demandé une réinitialisation du mot de passe. Cliquez sur le bouton ci-dessous pour choisir un nouveau mot de passe.",
	"Verify email":   "Vérifier l'email",
	"Reset password": "Réinitialiser le mot de passe",
	"Hello %s,":      "Bonjour %s,",
}

func init() {
	for key, value := range french {
		if err := message.SetString(language.French, key, value); err != nil {
			panic(err)
		}
	}
}
